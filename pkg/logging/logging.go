package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func get() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "Roadster 🏎️ ",
			CallerOffset:    1,
			Level:           log.InfoLevel,
		})
	})
	return singleton
}

// SetLevel sets the minimum level by name: debug, info, warn, error or fatal
func SetLevel(level string) error {
	l, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level %q: %w", level, err)
	}
	get().SetLevel(l)
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	get().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	get().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	get().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	get().Error(msg, keyvals...)
}

// Fatal logs and exits the process
func Fatal(msg string, keyvals ...interface{}) {
	get().Fatal(msg, keyvals...)
}
