package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/Amansingh80/task-management-backend-complete/internal/config"
)

// New builds the JSON logger used across the service. Every record carries
// the service name and environment so log aggregation can tell deployments
// apart.
func New(w io.Writer, cfg *config.Config) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	return slog.New(h).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
