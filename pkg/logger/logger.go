package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	userIDKey    ctxKey = "user_id"
)

// Config mirrors config.LoggerConfig but avoids importing the config package here.
type Config struct {
	Level    string
	Encoding string
	// Output defaults to stdout.
	Output io.Writer
}

// New builds a zap.Logger using the provided configuration.
func New(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("logger: unknown encoding %q", cfg.Encoding)
	}

	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), level)
	return zap.New(core, zap.AddCaller()), nil
}

// ContextWithRequestID attaches a request ID to the provided context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithUserID attaches the authenticated user to the provided context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user stored in ctx, if any.
func UserID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithContext enriches the logger with the request and user ids stored in the context.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	fields := make([]zap.Field, 0, 2)
	if reqID, ok := ctx.Value(requestIDKey).(string); ok && reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if userID := UserID(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
