package sim

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ResolveLogLevel maps a level name to a slog level.
func ResolveLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// NewLogger returns a text logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ResolveLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
