package server

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
)

// Request is one framed client call: a method name and its raw params.
type Request struct {
	Method  common.UpdateType `json:"method"`
	Message json.RawMessage   `json:"message,omitempty"`
}

func ParseRequest(b []byte) (*Request, error) {
	var r Request
	return &r, json.Unmarshal(b, &r)
}
