package cmd

const DESCRIPTION = `
solw keeps a locally cached view of a student's weekly SkolaOnline
timetable. The daemon (solw daemon) refreshes the schedule in the
background; the other commands talk to it over its local socket.
`

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const LoginDescription = `login stores a SkolaOnline refresh token in the daemon and starts the
first schedule refresh. Obtain the token from the SkolaOnline app; solw
never sees your password.`

const RefreshDescription = `refresh asks the daemon to fetch the current week from SkolaOnline and
waits for the result.`

const ShowDescription = `show prints the cached schedule for the currently selected day.`

const StatusDescription = `status prints the daemon login state and the progress of the last
refresh.`
