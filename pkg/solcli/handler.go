package solcli

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
)

// Handler processes a pushed update. Implementations receive the raw
// JSON message and are responsible for unmarshaling it.
type Handler interface {
	Handle(json.RawMessage) error
}

// NewScheduleHandler creates a handler for schedule push updates. The
// action parameter filters updates to the given action; pass an empty
// string to receive all of them.
func NewScheduleHandler(action common.ScheduleAction, callback func(*common.ScheduleUpdate) error) *ScheduleHandler {
	return &ScheduleHandler{
		Action:   action,
		Callback: callback,
	}
}

// ScheduleHandler filters schedule updates by action and invokes a
// callback for the matching ones.
type ScheduleHandler struct {
	Action   common.ScheduleAction
	Callback func(*common.ScheduleUpdate) error
}

func (h *ScheduleHandler) Handle(m json.RawMessage) error {
	var v common.ScheduleUpdate
	err := json.Unmarshal(m, &v)
	if err != nil {
		return err
	}
	if h.Action != "" && v.Action != h.Action {
		return nil
	}
	return h.Callback(&v)
}
