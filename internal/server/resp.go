package server

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
)

// Response is one framed reply. Ok false carries Error; Ok true carries
// an Update. The same shape is used for push broadcasts, which is why
// the payload is wrapped in a typed Update instead of being inline.
type Response struct {
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}

type Update struct {
	Type    common.UpdateType `json:"type"`
	Message any               `json:"message,omitempty"`
}

// MakeResult encodes a successful reply or push frame.
func MakeResult(utype common.UpdateType, res any) []byte {
	b, _ := json.Marshal(Response{
		Ok: true,
		Update: &Update{
			Type:    utype,
			Message: res,
		},
	})
	return b
}

// InitError encodes err as a failure frame.
func InitError(err error) []byte {
	if err == nil {
		return CreateError("Unknown")
	}
	return CreateError(err.Error())
}

// CreateError encodes a failure frame with the given message.
func CreateError(err string) []byte {
	b, _ := json.Marshal(Response{
		Ok:    false,
		Error: err,
	})
	return b
}
