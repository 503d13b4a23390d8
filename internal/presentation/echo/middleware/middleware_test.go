package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTraceID_UsesProvidedHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-Id", "my-trace-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := TraceID(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)

	assert.NoError(t, err)
	assert.Equal(t, "my-trace-123", rec.Header().Get("X-Trace-Id"))
	assert.Equal(t, "my-trace-123", c.Get("trace_id"))
}

func TestTraceID_GeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := TraceID(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)

	assert.NoError(t, err)
	traceID := rec.Header().Get("X-Trace-Id")
	assert.NotEmpty(t, traceID)
	assert.Len(t, traceID, 36)
}

func TestRequestLogger_LogsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("trace_id", "trace-1")

	called := false
	handler := RequestLogger(zap.New(core))(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)

	assert.NoError(t, err)
	assert.True(t, called)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/test", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "trace-1", fields["trace_id"])
}

func TestRequestLogger_HandlesError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.JSON(appErr.HTTPCode, appErr)
		}
	}
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestLogger(zap.New(core))(func(c echo.Context) error {
		return apperrors.ErrPaymentNotFound()
	})

	err := handler(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(http.StatusNotFound), logs.All()[0].ContextMap()["status"])
}

func TestRecovery_CatchesPanic(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Recovery(zap.NewNop())(func(c echo.Context) error {
		panic("something went wrong")
	})

	var err error
	assert.NotPanics(t, func() {
		err = handler(c)
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
}

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		given      string
		wantErr    bool
	}{
		{name: "disabled", configured: "", given: "", wantErr: false},
		{name: "matching key", configured: "secret", given: "secret", wantErr: false},
		{name: "missing key", configured: "secret", given: "", wantErr: true},
		{name: "wrong key", configured: "secret", given: "guess", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/payments/pay_1", nil)
			if tt.given != "" {
				req.Header.Set("X-API-Key", tt.given)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := APIKey(tt.configured)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)

			if !tt.wantErr {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "UNAUTHORIZED", appErr.Code)
		})
	}
}
