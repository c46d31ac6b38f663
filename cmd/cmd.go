// Package cmd implements the solw command line interface.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/solwidget/solw/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "solw",
		HelpName:              "solw",
		Usage:                 "A school timetable widget daemon.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "solw <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:   "daemon",
				Usage:  "run the sync daemon in the foreground",
				Action: daemon,
			},
			{
				Name:               "login",
				Usage:              "store a refresh token and start syncing",
				Action:             login,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        LoginDescription,
				UsageText:          "solw login <refresh-token>",
			},
			{
				Name:   "logout",
				Usage:  "forget the stored token and cached schedule",
				Action: logout,
			},
			{
				Name:               "refresh",
				Aliases:            []string{"r"},
				Usage:              "fetch the current week now",
				Action:             refresh,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        RefreshDescription,
			},
			{
				Name:               "show",
				Aliases:            []string{"s"},
				Usage:              "print the selected day of the cached week",
				Action:             show,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ShowDescription,
			},
			{
				Name:    "next",
				Aliases: []string{"n"},
				Usage:   "move one day forward",
				Action:  next,
			},
			{
				Name:    "prev",
				Aliases: []string{"p"},
				Usage:   "move one day back",
				Action:  prev,
			},
			{
				Name:               "status",
				Usage:              "print daemon status",
				Action:             status,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StatusDescription,
			},
			{
				Name:   "stop",
				Usage:  "stop the daemon",
				Action: stop,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of solw",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      show,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
