package api

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
)

// stopHandler shuts the daemon down after the response is written.
func (s *Api) stopHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	s.log.Info("stop requested")
	go s.stop()
	return common.UPDATE_STOP, &common.LoginResponse{Ok: true}, nil
}
