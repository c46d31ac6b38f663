package api

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
)

// refreshHandler requests a refresh of the current week. The caller's
// connection is attached to the pool so it receives the completion
// broadcast and can stop showing progress.
func (s *Api) refreshHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	pool.Attach(sconn)
	if err := s.machine.RequestRefresh(); err != nil {
		return common.UPDATE_REFRESH, nil, err
	}
	snap, err := s.state.Snapshot()
	if err != nil {
		return common.UPDATE_REFRESH, nil, err
	}
	return common.UPDATE_REFRESH, &common.StatusResponse{
		IsRefreshing: snap.Refresh.IsRefreshing,
		Error:        snap.Refresh.Error,
	}, nil
}
