package api

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
)

// scheduleHandler returns the cached window plus the navigation and
// refresh cursors.
func (s *Api) scheduleHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		return common.UPDATE_GET_SCHEDULE, nil, err
	}
	return common.UPDATE_GET_SCHEDULE, &common.ScheduleResponse{
		Window:            snap.Window,
		CurrentDayIndex:   snap.Nav.CurrentDayIndex,
		CurrentWeekOffset: snap.Nav.CurrentWeekOffset,
		IsRefreshing:      snap.Refresh.IsRefreshing,
		Error:             snap.Refresh.Error,
	}, nil
}
