package server

import (
	"encoding/json"

	"github.com/solwidget/solw/common"
)

// HandlerFunc defines the signature for daemon request handlers.
// It receives a synchronized connection, the attached-client pool, and the
// raw JSON message body. It returns the update type for the response, the
// response payload, and any error encountered.
type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
