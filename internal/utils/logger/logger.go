package logger

import (
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"usersvc/internal/app/server/config"
)

type options struct {
	level *slog.Level
}

type Option func(*options)

// WithLevel переопределяет уровень, выбранный по окружению.
// Пустая или неизвестная строка игнорируется.
func WithLevel(level string) Option {
	return func(o *options) {
		if l, ok := ParseLevel(level); ok {
			o.level = &l
		}
	}
}

// New создаёт логгер для окружения env:
// local - цветной вывод в консоль, dev и prod - JSON.
func New(env string, opts ...Option) *slog.Logger {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	level := slog.LevelInfo
	if env == config.EnvLocal || env == config.EnvDev {
		level = slog.LevelDebug
	}
	if o.level != nil {
		level = *o.level
	}

	switch env {
	case config.EnvLocal:
		return slog.New(newPrettyHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
}

func setupPrettySlog() *slog.Logger {
	return slog.New(newPrettyHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
