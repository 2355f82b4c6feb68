package utils

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logMu  sync.RWMutex
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// InitLogger configures the process logger. format "console" gives human
// readable output, anything else JSON lines.
func InitLogger(level, format string) {
	InitLoggerTo(os.Stdout, level, format)
}

// InitLoggerTo is InitLogger writing to w.
func InitLoggerTo(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()

	logMu.Lock()
	logger = l
	logMu.Unlock()
}

// Logger returns the process logger tagged with component.
func Logger(component string) zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger.With().Str("component", component).Logger()
}

// LogEvent writes a standardized line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	l := Logger(strings.ToLower(module))
	l.Info().
		Str("action", action).
		Str("request_id", strings.TrimSpace(requestID)).
		Msg(message)
}
