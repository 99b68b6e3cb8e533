package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New собирает процессный логгер. Уровень — LOG_LEVEL,
// LOG_PRETTY=true включает консольный вывод для разработки.
func New() zerolog.Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(os.Getenv("LOG_PRETTY"), "true") {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		Level(parseLevel(os.Getenv("LOG_LEVEL"))).
		With().Timestamp().
		Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
