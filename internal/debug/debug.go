// Package debug provides an env-toggled logger for the odd diagnostic
// line the pipeline wants to emit without a --verbose flag of its own.
package debug

import (
	"fmt"
	"log"
	"os"
)

var logger *log.Logger

func init() {
	if os.Getenv("ORONSAY_DEBUG") == "" {
		return
	}
	logger = log.New(os.Stderr, "oronsay: ", log.Ltime|log.Lshortfile)
}

// Log writes a formatted message to stderr if ORONSAY_DEBUG is set in
// the environment; otherwise it's a no-op.
func Log(format string, args ...interface{}) {
	if logger == nil {
		return
	}
	_ = logger.Output(2, fmt.Sprintf(format, args...))
}
