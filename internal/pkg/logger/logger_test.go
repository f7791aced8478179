package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestLogHTTPRequest_LevelFollowsStatus(t *testing.T) {
	zl, logs := observed()

	zl.LogHTTPRequest(nil, http.MethodGet, "/ping", "127.0.0.1", "u1", "r1", 200, time.Millisecond, nil)
	zl.LogHTTPRequest(nil, http.MethodPost, "/api/transactions", "127.0.0.1", "u1", "r2", 422, time.Millisecond, nil)
	zl.LogHTTPRequest(nil, http.MethodGet, "/api/transactions/x/status", "127.0.0.1", "u1", "r3", 502, time.Millisecond, errors.New("boom"))

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
		assert.Equal(t, "r3", entries[2].ContextMap()["request_id"])
	}
}

func TestZapEchoMiddleware(t *testing.T) {
	zl, logs := observed()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/abc/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-42")

	h := ZapEchoMiddleware(zl)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	assert.NoError(t, h(c))
	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "user-42", fields["user_id"])
		assert.EqualValues(t, http.StatusNoContent, fields["status"])
	}
}

func TestWithTransaction(t *testing.T) {
	zl, logs := observed()
	zl.WithTransaction("tx-1").Info("tracked")
	assert.Equal(t, "tx-1", logs.All()[0].ContextMap()["transaction_id"])
}
