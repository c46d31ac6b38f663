package api

import (
	"encoding/json"
	"time"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
)

func (s *Api) statusHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	token, err := s.tokens.Token()
	if err != nil {
		return common.UPDATE_STATUS, nil, err
	}
	snap, err := s.state.Snapshot()
	if err != nil {
		return common.UPDATE_STATUS, nil, err
	}
	resp := &common.StatusResponse{
		LoggedIn:      token != "",
		IsRefreshing:  snap.Refresh.IsRefreshing,
		Error:         snap.Refresh.Error,
		HasCachedWeek: snap.Window != nil,
	}
	if !snap.Refresh.LastRequestedAt.IsZero() {
		resp.LastRequestedAt = snap.Refresh.LastRequestedAt.Format(time.RFC3339)
	}
	return common.UPDATE_STATUS, resp, nil
}
