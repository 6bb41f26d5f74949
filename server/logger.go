package server

import (
	"context"
	"log/slog"
	"os"

	"licitaserver/server/middleware"
)

var (
	// Logger logger estruturado global
	Logger *slog.Logger
)

func init() {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	Logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// LogError loga um erro com o request ID do contexto
func LogError(ctx context.Context, err error, msg string, attrs ...any) {
	reqID := middleware.GetRequestID(ctx)
	attrs = append(attrs, "error", err, "request_id", reqID)
	Logger.Error(msg, attrs...)
}

// LogWarn loga um aviso com o request ID do contexto
func LogWarn(ctx context.Context, msg string, attrs ...any) {
	reqID := middleware.GetRequestID(ctx)
	attrs = append(attrs, "request_id", reqID)
	Logger.Warn(msg, attrs...)
}

// LogInfo loga uma mensagem informativa com o request ID do contexto
func LogInfo(ctx context.Context, msg string, attrs ...any) {
	reqID := middleware.GetRequestID(ctx)
	attrs = append(attrs, "request_id", reqID)
	Logger.Info(msg, attrs...)
}
