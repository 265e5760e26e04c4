package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"sales-dashboard/internal/config"
)

// NewLogger builds the process logger. Unknown formats fall back to JSON and
// unknown levels to info.
func NewLogger(cfg config.LoggerConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.Level),
		AddSource: true,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("service", "sales-dashboard")
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		if strings.EqualFold(level, "warning") {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
	return l
}

type contextKey string

const RequestIDKey contextKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// LoggerFrom returns base annotated with the request id carried by ctx.
func LoggerFrom(ctx context.Context, base *slog.Logger) *slog.Logger {
	if requestID := GetRequestID(ctx); requestID != "" {
		return base.With("request_id", requestID)
	}
	return base
}
