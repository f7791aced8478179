package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/piresc/payon/internal/pkg/circuitbreaker"
	appctx "github.com/piresc/payon/internal/pkg/context"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL:   url,
		Timeout:   time.Second,
		UserAgent: "payon-tracker-test",
		Retry:     retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, Multiplier: 2},
	}, logger.NewNopZapLogger())
}

func TestClient_ForwardsTokenAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		assert.Equal(t, "payon-tracker-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "/transactions/t1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ANALYZING"})
	}))
	defer server.Close()

	ctx := appctx.WithToken(appctx.WithRequestID(context.Background(), "req-1"), "user-token")
	var out map[string]string
	err := newTestClient(server.URL).GetJSON(ctx, "get_status", "/transactions/t1", &out)

	require.NoError(t, err)
	assert.Equal(t, "ANALYZING", out["status"])
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"comment":"loyer"}`, string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := newTestClient(server.URL).PostJSON(context.Background(), "create", "/transactions", map[string]string{"comment": "loyer"}, nil)
	assert.NoError(t, err)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"SUSPECT"}`))
	}))
	defer server.Close()

	var out map[string]string
	err := newTestClient(server.URL).GetJSON(context.Background(), "get_status", "/transactions/t1", &out)

	require.NoError(t, err)
	assert.Equal(t, "SUSPECT", out["status"])
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"RULE_MAX_AMOUNT"}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).PostJSON(context.Background(), "create", "/transactions", map[string]int{"amount": 1}, nil)

	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnprocessableEntity, he.StatusCode)
	assert.JSONEq(t, `{"code":"RULE_MAX_AMOUNT"}`, string(he.Body))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_BreakerOpensPerOperation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	breaker := circuitbreaker.DefaultConfig("")
	breaker.FailureThreshold = 1
	c := NewClient(Config{BaseURL: server.URL, Breaker: breaker}, logger.NewNopZapLogger())

	_ = c.GetJSON(context.Background(), "get_status", "/transactions/t1", nil)
	err := c.GetJSON(context.Background(), "get_status", "/transactions/t1", nil)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitBreakerOpen)
	assert.Equal(t, "OPEN", c.BreakerStats()["get_status"].State)
}

func TestIsServerError(t *testing.T) {
	assert.False(t, IsServerError(nil))
	assert.False(t, IsServerError(&HTTPError{StatusCode: 404}))
	assert.True(t, IsServerError(&HTTPError{StatusCode: 500}))
	assert.True(t, IsServerError(errors.New("connection refused")))
	assert.False(t, IsServerError(context.Canceled))
}
