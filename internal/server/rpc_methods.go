package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/pkg/logger"
	"github.com/solwidget/solw/pkg/sollib"
)

// Custom JSON-RPC error codes for schedule operations.
const (
	codeNotAuthenticated = jrpc2.Code(-32001)
	codeNoSchedule       = jrpc2.Code(-32002)
	codeInvalidParams    = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	ListenAll bool   // If true, bind to 0.0.0.0 instead of 127.0.0.1
	Port      int    // HTTP listen port
	Version   string // Daemon version
}

// RPCServer exposes the schedule over a JSON-RPC 2.0 HTTP bridge and a
// WebSocket endpoint with push notifications.
type RPCServer struct {
	bridge   jhttp.Bridge
	methods  handler.Map
	secret   string
	version  string
	addr     string
	state    *sollib.Manager
	machine  *sollib.NavigationStateMachine
	notifier *RPCNotifier
	log      logger.Logger
	server   *http.Server
	mu       sync.Mutex
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version string `json:"version"`
}

// NavigateParams is the input for schedule.navigate.
type NavigateParams struct {
	Direction string `json:"direction"`
}

// ScheduleResult is the response for schedule.get.
type ScheduleResult struct {
	Window            *sollib.WeekWindow `json:"window,omitempty"`
	CurrentDayIndex   int                `json:"currentDayIndex"`
	CurrentWeekOffset int                `json:"currentWeekOffset"`
	IsRefreshing      bool               `json:"isRefreshing"`
	Error             string             `json:"error,omitempty"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
func NewRPCServer(cfg *RPCConfig, l logger.Logger, state *sollib.Manager, machine *sollib.NavigationStateMachine, notifier *RPCNotifier) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	host := "127.0.0.1"
	if cfg.ListenAll {
		host = "0.0.0.0"
	}
	rs := &RPCServer{
		secret:   cfg.Secret,
		version:  cfg.Version,
		addr:     fmt.Sprintf("%s:%d", host, cfg.Port),
		state:    state,
		machine:  machine,
		notifier: notifier,
		log:      l,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"schedule.get":      handler.New(rs.scheduleGet),
		"schedule.refresh":  handler.New(rs.scheduleRefresh),
		"schedule.navigate": handler.New(rs.scheduleNavigate),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{Version: rs.version}, nil
}

// scheduleGet returns the cached window plus the navigation and refresh
// cursors.
func (rs *RPCServer) scheduleGet(_ context.Context) (*ScheduleResult, error) {
	snap, err := rs.state.Snapshot()
	if err != nil {
		return nil, err
	}
	return &ScheduleResult{
		Window:            snap.Window,
		CurrentDayIndex:   snap.Nav.CurrentDayIndex,
		CurrentWeekOffset: snap.Nav.CurrentWeekOffset,
		IsRefreshing:      snap.Refresh.IsRefreshing,
		Error:             snap.Refresh.Error,
	}, nil
}

// scheduleRefresh requests a refresh of the current week.
func (rs *RPCServer) scheduleRefresh(_ context.Context) (*EmptyResult, error) {
	if err := rs.machine.RequestRefresh(); err != nil {
		return nil, err
	}
	return &EmptyResult{}, nil
}

// scheduleNavigate moves the day cursor one step.
func (rs *RPCServer) scheduleNavigate(_ context.Context, p *NavigateParams) (*EmptyResult, error) {
	dir, ok := sollib.ParseDirection(p.Direction)
	if !ok {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "direction must be \"previous\" or \"next\""}
	}
	if err := rs.machine.Navigate(dir); err != nil {
		return nil, err
	}
	return &EmptyResult{}, nil
}

// Start runs the HTTP server exposing /rpc (bridge) and /ws (WebSocket)
// until Shutdown is called. If no secret is configured the server does
// not start; RPC requires explicit opt-in.
func (rs *RPCServer) Start() error {
	if rs.secret == "" {
		rs.log.Info("rpc bridge disabled: no %s set", common.RPCSecretEnv)
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", requireToken(rs.secret, &rs.bridge))
	mux.Handle("/ws", requireToken(rs.secret, http.HandlerFunc(rs.handleWS)))

	rs.mu.Lock()
	rs.server = &http.Server{
		Addr:    rs.addr,
		Handler: mux,
	}
	rs.mu.Unlock()

	err := rs.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server and closes the jrpc2 bridge.
func (rs *RPCServer) Shutdown(ctx context.Context) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.bridge.Close()
	if rs.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return rs.server.Shutdown(shutdownCtx)
}
