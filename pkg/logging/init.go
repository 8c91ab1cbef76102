package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

const (
	JSON = "json"
	Text = "text"
	Tint = "tint"
)

// Initialize installs the default slog logger writing to w.
func Initialize(w io.Writer, loggingType string, logLevelName string) error {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(logLevelName)); err != nil {
		return fmt.Errorf("could not parse log level: %w", err)
	}

	handler, err := newHandler(w, loggingType, logLevel)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))
	slog.Debug("logging initialized", "logLevel", logLevel, "type", loggingType)
	return nil
}

func newHandler(w io.Writer, loggingType string, level slog.Level) (slog.Handler, error) {
	switch loggingType {
	case JSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	case Text:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), nil
	case Tint:
		return tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: "15:04:05"}), nil
	default:
		return nil, fmt.Errorf("unknown logging type: %s", loggingType)
	}
}
