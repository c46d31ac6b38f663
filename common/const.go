package common

type UpdateType string

const (
	UPDATE_LOGIN        UpdateType = "login"
	UPDATE_LOGOUT       UpdateType = "logout"
	UPDATE_REFRESH      UpdateType = "refresh"
	UPDATE_NAVIGATE     UpdateType = "navigate"
	UPDATE_GET_SCHEDULE UpdateType = "get_schedule"
	UPDATE_STATUS       UpdateType = "status"
	UPDATE_VERSION      UpdateType = "version"
	UPDATE_STOP         UpdateType = "stop"

	// UPDATE_SCHEDULE labels pushed schedule updates broadcast to
	// attached clients outside the request/response cycle.
	UPDATE_SCHEDULE UpdateType = "schedule_update"
)

// MaxMessageSize limits a single framed payload.
const MaxMessageSize = 8 << 20

// TCP fallback transport defaults, used when the Unix socket is
// unavailable.
const (
	TCPHost        = "localhost"
	DefaultTCPPort = 4843
)

// DefaultRPCPort is the HTTP port of the JSON-RPC bridge.
const DefaultRPCPort = 4844

// ScheduleAction labels push updates broadcast to attached clients.
type ScheduleAction string

const (
	ScheduleUpdated ScheduleAction = "schedule_updated"
	RefreshStarted  ScheduleAction = "refresh_started"
	RefreshFailed   ScheduleAction = "refresh_failed"
)
