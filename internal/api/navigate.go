package api

import (
	"encoding/json"
	"errors"

	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/internal/server"
	"github.com/solwidget/solw/pkg/sollib"
)

// navigateHandler moves the day cursor one step and returns the
// resulting snapshot. A move past the window edge starts a fetch; the
// returned snapshot then reports isRefreshing.
func (s *Api) navigateHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.NavigateParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_NAVIGATE, nil, err
	}
	dir, ok := sollib.ParseDirection(m.Direction)
	if !ok {
		return common.UPDATE_NAVIGATE, nil, errors.New(`direction must be "previous" or "next"`)
	}
	pool.Attach(sconn)
	if err := s.machine.Navigate(dir); err != nil {
		return common.UPDATE_NAVIGATE, nil, err
	}
	return s.scheduleHandler(sconn, pool, nil)
}
