package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu    sync.RWMutex
	base  zerolog.Logger
	ready bool
	out   io.Writer = os.Stdout
)

// Init configures the global JSON logger.
//
// Parameters:
//   - level: debug|info|warn|error (anything else means info).
//   - pretty: human-readable console output instead of JSON lines.
//
// Calling Init again replaces the logger; existing child loggers keep the old one.
func Init(level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	mu.RLock()
	w := out
	mu.RUnlock()
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Str("service", "fxpulse").Logger().Level(parseLevel(level))

	mu.Lock()
	base = l
	ready = true
	mu.Unlock()
}

// InitFromEnv reads LOG_LEVEL and LOG_PRETTY directly; used before config is loaded.
func InitFromEnv() {
	Init(getenv("LOG_LEVEL", "info"), strings.EqualFold(getenv("LOG_PRETTY", "false"), "true"))
}

// L returns the global logger, initializing it from the environment on first use.
func L() *zerolog.Logger {
	mu.RLock()
	ok := ready
	mu.RUnlock()
	if !ok {
		InitFromEnv()
	}
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

// For returns a child logger tagged with component.
func For(component string) zerolog.Logger {
	return L().With().Str("component", component).Logger()
}

// SetOutput redirects future loggers built by Init; tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
