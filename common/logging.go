package common

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var loggerOnce sync.Once

// logger wraps the charmbracelet logger shared by every package in the module.
type logger struct {
	*log.Logger
}

var singleton *logger

// getLogger returns the process-wide logger, creating it on first use.
// The caller offset skips the Log* wrappers so reported callers point at the real call site.
//
// Returns:
//   - *logger: the shared logger instance
func getLogger() *logger {
	loggerOnce.Do(func() {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy-castle",
			CallerOffset:    1,
		})
		l.SetLevel(log.InfoLevel)
		singleton = &logger{l}
	})
	return singleton
}

// SetLogLevel parses a level name ("debug", "info", "warn", "error", "fatal") and applies it to the shared logger.
//
// Parameters:
//   - level: the level name to apply
//
// Returns:
//   - error: error if the level name is not recognized
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	getLogger().SetLevel(lvl)
	return nil
}

func LogDebug(msg string, args ...any) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...any) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...any) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...any) {
	getLogger().Errorf(msg, args...)
}

// LogFatal logs at fatal level and exits the process with status 1.
func LogFatal(msg string, args ...any) {
	getLogger().Fatalf(msg, args...)
}
