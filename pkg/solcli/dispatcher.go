package solcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/solwidget/solw/common"
)

type Dispatcher struct {
	Handlers map[common.UpdateType][]Handler
}

// ErrDisconnect is returned by a handler to stop the Listen loop.
var ErrDisconnect error = errors.New("disconnect")

func (d *Dispatcher) process(buf []byte) error {
	var res Response
	err := json.Unmarshal(buf, &res)
	if err != nil {
		return fmt.Errorf("failed to parse (%s): '%s'", err.Error(), string(buf))
	}
	if !res.Ok {
		return errors.New(res.Error)
	}
	if res.Update == nil {
		return nil
	}
	for _, h := range d.Handlers[res.Update.Type] {
		if err := h.Handle(res.Update.Message); err != nil {
			return err
		}
	}
	return nil
}
