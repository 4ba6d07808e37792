package logger

import (
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Setup creates and configures the process-wide zerolog logger. In a
// terminal it writes a human-readable, colorized console format (via
// go-colorable/go-isatty); otherwise it writes structured JSON, a
// JSON-in-production, readable-in-dev split.
func Setup(level string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	if isatty.IsTerminal(os.Stdout.Fd()) {
		console := zerolog.ConsoleWriter{Out: colorable.NewColorableStdout(), TimeFormat: time.RFC3339}
		return zerolog.New(console).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger creates a default logger at info level.
func Logger() zerolog.Logger {
	return Setup("info")
}
