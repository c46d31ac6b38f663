// Package common provides shared types and constants used across the solw
// client-daemon communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for custom socket path.
	SocketPathEnv = "SOLW_SOCKET_PATH"

	// ConfigDirEnv is the environment variable for the state directory.
	ConfigDirEnv = "SOLW_CONFIG_DIR"

	// APIBaseEnv is the environment variable overriding the SolAPI base URL.
	APIBaseEnv = "SOLW_API_BASE"

	// RPCSecretEnv is the environment variable holding the HTTP bridge secret.
	RPCSecretEnv = "SOLW_RPC_SECRET"

	// RefreshCronEnv is the environment variable for the periodic refresh
	// cron expression.
	RefreshCronEnv = "SOLW_REFRESH_CRON"

	// TCPPortEnv is the environment variable for the TCP fallback port.
	TCPPortEnv = "SOLW_TCP_PORT"

	// RPCPortEnv is the environment variable for the JSON-RPC bridge port.
	RPCPortEnv = "SOLW_RPC_PORT"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "SOLW_DEBUG"
)
