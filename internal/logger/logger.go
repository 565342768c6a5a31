package logger

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CorrelationIDHeader is the response header carrying the per-request id.
const CorrelationIDHeader = "X-Correlation-ID"

const correlationIDKey = "correlation_id"

// Init builds the process-wide zap logger. The level is taken from the
// LOG_LEVEL environment variable (debug, info, warn, error), defaulting
// to info. The logger is installed as zap's global.
func Init() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logg, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logg)
	return logg, nil
}

// Middleware assigns a correlation id to every request, echoes it in the
// response headers and logs the request outcome.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)

		start := time.Now()
		c.Next()

		zap.L().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String(correlationIDKey, id),
		)
	}
}

// CorrelationID returns the id assigned by Middleware, or "" when the
// middleware did not run.
func CorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}
