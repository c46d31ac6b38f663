package api

import (
	"encoding/json"
	"errors"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
)

// loginHandler stores the supplied refresh token and kicks off an
// immediate refresh so the schedule appears without waiting for the
// next periodic run.
func (s *Api) loginHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.LoginParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_LOGIN, nil, err
	}
	if m.RefreshToken == "" {
		return common.UPDATE_LOGIN, nil, errors.New("refresh_token is required")
	}
	if err := s.tokens.SetToken(m.RefreshToken); err != nil {
		return common.UPDATE_LOGIN, nil, err
	}
	s.log.Info("login: token stored")
	if err := s.machine.RequestRefresh(); err != nil {
		return common.UPDATE_LOGIN, nil, err
	}
	return common.UPDATE_LOGIN, &common.LoginResponse{Ok: true}, nil
}
