package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/api"
	idaemon "github.com/solwidget/solw/internal/daemon"
	"github.com/solwidget/solw/internal/scheduler"
	"github.com/solwidget/solw/internal/server"
	"github.com/solwidget/solw/pkg/logger"
	"github.com/solwidget/solw/pkg/sollib"
	"github.com/solwidget/solw/pkg/tokenstore"
)

// Scheduler event names. The scheduler reports fired events by name;
// handleSchedulerEvent resolves them back to an action.
const (
	refreshRetryEvent = "refresh.retry"
	refreshCronEvent  = "refresh.cron"
)

// defaultRefreshCron refreshes twice an hour during the school day.
const defaultRefreshCron = "*/30 * * * *"

const shutdownTimeout = 10 * time.Second

// DaemonComponents holds all initialized daemon components so startup
// and cleanup stay in one place.
type DaemonComponents struct {
	Store        *sollib.SQLiteStore
	Tokens       *tokenstore.Manager
	State        *sollib.Manager
	Machine      *sollib.NavigationStateMachine
	Orchestrator *sollib.Orchestrator
	Scheduler    *scheduler.Scheduler
	Api          *api.Api
	Server       *server.Server
	RPC          *server.RPCServer
	Runner       *idaemon.Runner

	log    logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func configDir() (string, error) {
	if dir := os.Getenv(common.ConfigDirEnv); dir != "" {
		return dir, os.MkdirAll(dir, 0700)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "solw")
	return dir, os.MkdirAll(dir, 0700)
}

func envPort(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p >= 1 && p <= 65535 {
			return p
		}
	}
	return def
}

// actionFor maps a state snapshot to the push action attached clients
// receive.
func actionFor(s sollib.State) common.ScheduleAction {
	switch {
	case s.Refresh.Error != "":
		return common.RefreshFailed
	case s.Refresh.IsRefreshing:
		return common.RefreshStarted
	default:
		return common.ScheduleUpdated
	}
}

// initDaemonComponents initializes all daemon components with the
// provided logger. On error, any partially initialized components are
// cleaned up before returning.
func initDaemonComponents(log logger.Logger, version string) (*DaemonComponents, error) {
	dir, err := configDir()
	if err != nil {
		log.Error("config dir: %v", err)
		return nil, err
	}

	store, err := sollib.NewSQLiteStore(filepath.Join(dir, "state.db"))
	if err != nil {
		log.Error("state store: %v", err)
		return nil, err
	}

	fs := afero.NewOsFs()
	tokens, err := tokenstore.New(fs, dir, tokenstore.DefaultKeyStore(fs, dir))
	if err != nil {
		log.Error("token store: %v", err)
		store.Close()
		return nil, err
	}

	state := sollib.NewManager(store)
	machine := sollib.NewNavigationStateMachine(state)
	client := sollib.NewClient(nil, os.Getenv(common.APIBaseEnv))

	serv := server.NewServer(log, envPort(common.TCPPortEnv, common.DefaultTCPPort))
	notifier := server.NewRPCNotifier(log)

	ctx, cancel := context.WithCancel(context.Background())
	c := &DaemonComponents{
		Store:   store,
		Tokens:  tokens,
		State:   state,
		Machine: machine,
		Server:  serv,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	notify := func() {
		snap, err := state.Snapshot()
		if err != nil {
			log.Error("notify: snapshot: %v", err)
			return
		}
		serv.Pool().Broadcast(server.MakeResult(common.UPDATE_SCHEDULE, &common.ScheduleUpdate{
			Action:       actionFor(snap),
			IsRefreshing: snap.Refresh.IsRefreshing,
			Error:        snap.Refresh.Error,
		}))
		note := server.ScheduleUpdatedNotification{
			IsRefreshing: snap.Refresh.IsRefreshing,
			Error:        snap.Refresh.Error,
		}
		if snap.Window != nil {
			note.WeekStart = snap.Window.WeekStart
		}
		notifier.Broadcast("schedule.updated", note)
	}

	c.Scheduler = scheduler.New(ctx, c.handleSchedulerEvent)

	c.Orchestrator = sollib.NewOrchestrator(log, client, tokens, state, machine, &sollib.OrchestratorOpts{
		Notify: notify,
		ScheduleRetry: func(d time.Duration, _ func()) {
			c.Scheduler.AddAfter(refreshRetryEvent, d)
		},
	})

	cron := os.Getenv(common.RefreshCronEnv)
	if cron == "" {
		cron = defaultRefreshCron
	} else if !scheduler.ValidCron(cron) {
		log.Warning("invalid %s %q, using %q", common.RefreshCronEnv, cron, defaultRefreshCron)
		cron = defaultRefreshCron
	}
	if err := c.Scheduler.AddCron(refreshCronEvent, cron); err != nil {
		log.Error("schedule cron refresh: %v", err)
	}

	c.Api = api.NewApi(log, tokens, state, machine, version, c.Stop)
	c.Api.RegisterHandlers(serv)

	c.RPC = server.NewRPCServer(&server.RPCConfig{
		Secret:  os.Getenv(common.RPCSecretEnv),
		Port:    envPort(common.RPCPortEnv, common.DefaultRPCPort),
		Version: version,
	}, log, state, machine, notifier)

	c.Runner = idaemon.New(&idaemon.Config{
		Port:            envPort(common.TCPPortEnv, common.DefaultTCPPort),
		ConfigDir:       dir,
		ShutdownTimeout: shutdownTimeout,
	}, &idaemon.Dependencies{
		ShutdownFunc: c.shutdown,
	})

	return c, nil
}

// handleSchedulerEvent dispatches fired scheduler events. The periodic
// refresh goes through the navigation machine so it rewinds the cursor
// to the current week and marks the refresh in flight before the
// pipeline runs. A connectivity retry resumes the pending run instead;
// it must not reset the cursor.
func (c *DaemonComponents) handleSchedulerEvent(name string) {
	switch name {
	case refreshRetryEvent:
		c.Orchestrator.TriggerRefresh()
	case refreshCronEvent:
		if err := c.Machine.RequestRefresh(); err != nil {
			c.log.Error("periodic refresh: %v", err)
		}
	}
}

// Run starts all transports and blocks until Stop is called or the
// context used by the runner is canceled.
func (c *DaemonComponents) Run() error {
	go func() {
		if err := c.RPC.Start(); err != nil {
			c.log.Error("rpc bridge: %v", err)
		}
	}()
	go func() {
		if err := c.Server.Start(c.ctx); err != nil {
			c.log.Error("socket server: %v", err)
			c.Stop()
		}
	}()

	// A refresh interrupted by a restart stays marked in-flight in the
	// store; pick it up instead of leaving the state stuck.
	if snap, err := c.State.Snapshot(); err == nil && snap.Refresh.IsRefreshing {
		c.Orchestrator.TriggerRefresh()
	}

	err := c.Runner.Start(c.ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop initiates a graceful shutdown. Safe to call from any goroutine,
// including the stop method handler.
func (c *DaemonComponents) Stop() {
	if err := c.Runner.Shutdown(); err != nil && !errors.Is(err, idaemon.ErrNotRunning) {
		c.log.Error("shutdown: %v", err)
	}
}

// shutdown tears the transports down. Invoked by the runner with the
// configured timeout.
func (c *DaemonComponents) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.RPC.Shutdown(shutdownCtx); err != nil {
		c.log.Error("rpc shutdown: %v", err)
	}
	if err := c.Server.Shutdown(); err != nil {
		c.log.Error("server shutdown: %v", err)
	}
	c.cancel()
	return nil
}

// Close releases remaining resources after Run has returned.
func (c *DaemonComponents) Close() {
	c.cancel()
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.log.Error("store close: %v", err)
		}
	}
	_ = c.log.Close()
}
