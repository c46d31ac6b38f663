package cmd

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli"

	"github.com/solwidget/solw/cmd/common"
	"github.com/solwidget/solw/pkg/logger"
)

func daemon(ctx *cli.Context) error {
	if err := RunDaemon(currentBuildArgs.Version); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "run", err)
	}
	return nil
}

// RunDaemon starts the sync daemon in the foreground and blocks until
// it is stopped by a signal or the stop method.
func RunDaemon(version string) error {
	l := daemonLogger()
	comps, err := initDaemonComponents(l, version)
	if err != nil {
		return err
	}
	defer comps.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		<-sig
		comps.Stop()
	}()

	l.Info("solwd %s listening", version)
	return comps.Run()
}

// daemonLogger logs to the console and, when the config directory is
// writable, also to solwd.log inside it.
func daemonLogger() logger.Logger {
	console := logger.NewStandardLogger(log.Default())
	dir, err := configDir()
	if err != nil {
		console.Warning("config dir for log file: %v", err)
		return console
	}
	fl, err := newFileLogger(filepath.Join(dir, "solwd.log"))
	if err != nil {
		console.Warning("open log file: %v", err)
		return console
	}
	return logger.NewMultiLogger(console, fl)
}

// fileLogger appends to a log file and closes the handle with the
// logger.
type fileLogger struct {
	logger.Logger
	f *os.File
}

func newFileLogger(path string) (*fileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &fileLogger{
		Logger: logger.NewStandardLogger(log.New(f, "", log.LstdFlags)),
		f:      f,
	}, nil
}

func (l *fileLogger) Close() error { return l.f.Close() }
