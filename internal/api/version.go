package api

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
)

// versionHandler returns the daemon's version.
func (s *Api) versionHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_VERSION, &common.VersionResponse{Version: s.version}, nil
}
