package log

import (
	"os"

	"go.uber.org/zap"
)

var Logger = zap.NewNop()

// EnsureLogger replaces the no-op logger. LOG_FORMAT=json switches to the
// production encoder.
func EnsureLogger() {
	var err error
	if os.Getenv("LOG_FORMAT") == "json" {
		Logger, err = zap.NewProduction()
	} else {
		Logger, err = zap.NewDevelopment()
	}
	if err != nil {
		Logger = zap.NewNop()
	}
}
