package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
	"go.uber.org/zap"
)

const TraceIDHeader = "X-Trace-Id"

func TraceID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		traceID := c.Request().Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Response().Header().Set(TraceIDHeader, traceID)
		c.Set("trace_id", traceID)
		return next(c)
	}
}

func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// resolve the status the error handler will write
				c.Error(err)
			}

			fields := []zap.Field{
				zap.Any("trace_id", c.Get("trace_id")),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			}
			if c.Response().Status >= http.StatusInternalServerError {
				log.Warn("request", append(fields, zap.Error(err))...)
			} else {
				log.Info("request", fields...)
			}
			return nil
		}
	}
}

func Recovery(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered",
						zap.Any("panic", r),
						zap.Any("trace_id", c.Get("trace_id")),
						zap.Stack("stack"))
					err = apperrors.ErrInternal()
				}
			}()
			return next(c)
		}
	}
}

// APIKey rejects requests whose X-API-Key does not match key. An empty key
// disables the check.
func APIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" {
				return next(c)
			}
			given := c.Request().Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				return apperrors.ErrUnauthorized()
			}
			return next(c)
		}
	}
}
