package solcli

import (
	"log"
	"os"

	"github.com/solwidget/solw/common"
)

// debugMode reports whether transport-level debug logging is enabled
// via the environment.
func debugMode() bool {
	return os.Getenv(common.DebugEnv) == "1"
}

func debugLog(format string, args ...any) {
	if !debugMode() {
		return
	}
	log.Printf(format, args...)
}
