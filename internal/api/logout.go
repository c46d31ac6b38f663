package api

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
)

// logoutHandler deletes the stored token and wipes all cached schedule
// state.
func (s *Api) logoutHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	if err := s.tokens.DeleteToken(); err != nil {
		return common.UPDATE_LOGOUT, nil, err
	}
	if err := s.state.Reset(); err != nil {
		return common.UPDATE_LOGOUT, nil, err
	}
	s.log.Info("logout: token and state cleared")
	return common.UPDATE_LOGOUT, &common.LoginResponse{Ok: true}, nil
}
