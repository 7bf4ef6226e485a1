package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextRequestIDKey stores the request id inside Gin context.
const ContextRequestIDKey = "request_id"

// Ginzap logs one line per request. 5xx are errors, 4xx warnings.
func Ginzap(logger *zap.Logger, timeFormat string, utc bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		query := ctx.Request.URL.RawQuery

		ctx.Next()

		end := time.Now()
		if utc {
			end = end.UTC()
		}
		status := ctx.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", ctx.GetString(ContextRequestIDKey)),
			zap.Int("status", status),
			zap.String("method", ctx.Request.Method),
			zap.String("path", path),
			zap.String("ip", ctx.ClientIP()),
			zap.String("user_agent", ctx.Request.UserAgent()),
			zap.Duration("latency", end.Sub(start)),
			zap.String("time", end.Format(timeFormat)),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", ctx.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(path, fields...)
		case status >= http.StatusBadRequest:
			logger.Warn(path, fields...)
		default:
			logger.Info(path, fields...)
		}
	}
}

// RecoveryWithZap recovers panics outside the handler seam and answers with a 500 envelope.
func RecoveryWithZap(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				fields := []zap.Field{
					zap.String("request_id", ctx.GetString(ContextRequestIDKey)),
					zap.String("method", ctx.Request.Method),
					zap.String("path", ctx.Request.URL.Path),
					zap.Any("error", r),
				}
				if stack {
					fields = append(fields, zap.Stack("stacktrace"))
				}
				logger.Error("panic recovered", fields...)
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, JSONResponse{Error: "internal server error"})
			}
		}()
		ctx.Next()
	}
}
