package logutil

import (
	"os"
	"time"

	"github.com/caarlos0/log"
)

// LogDuration logs, one level indented, how long the user took to answer a
// prompt that started at start.
func LogDuration(logger *log.Logger, start time.Time) {
	logger.IncreasePadding()
	logger.Debugf("answered after: %s", time.Since(start).Round(time.Millisecond))
	logger.ResetPadding()
}

// New returns a logger writing to stderr, at debug level when verbose is set.
func New(verbose bool) *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.Level = log.DebugLevel
	}
	return logger
}
