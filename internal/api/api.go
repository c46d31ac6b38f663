// Package api binds the framed daemon protocol to the timetable core:
// each handler parses its wire params, drives the state machine or the
// token store, and returns a wire response.
package api

import (
	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
	"github.com/solwidget/solw/pkg/logger"
	"github.com/solwidget/solw/pkg/sollib"
)

// TokenStore is the token persistence surface the handlers need.
type TokenStore interface {
	sollib.TokenStore
	DeleteToken() error
}

type Api struct {
	log     logger.Logger
	tokens  TokenStore
	state   *sollib.Manager
	machine *sollib.NavigationStateMachine
	version string
	stop    func()
}

// NewApi creates the handler set. stop is invoked by the stop method to
// shut the daemon down.
func NewApi(l logger.Logger, tokens TokenStore, state *sollib.Manager, machine *sollib.NavigationStateMachine, version string, stop func()) *Api {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if stop == nil {
		stop = func() {}
	}
	return &Api{
		log:     l,
		tokens:  tokens,
		state:   state,
		machine: machine,
		version: version,
		stop:    stop,
	}
}

func (s *Api) RegisterHandlers(srv *server.Server) {
	srv.RegisterHandler(common.UPDATE_LOGIN, s.loginHandler)
	srv.RegisterHandler(common.UPDATE_LOGOUT, s.logoutHandler)
	srv.RegisterHandler(common.UPDATE_REFRESH, s.refreshHandler)
	srv.RegisterHandler(common.UPDATE_NAVIGATE, s.navigateHandler)
	srv.RegisterHandler(common.UPDATE_GET_SCHEDULE, s.scheduleHandler)
	srv.RegisterHandler(common.UPDATE_STATUS, s.statusHandler)
	srv.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
	srv.RegisterHandler(common.UPDATE_STOP, s.stopHandler)
}
