package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/payon/internal/pkg/jwt"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func TestPanicRecoveryMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware(), PanicRecoveryMiddleware(logger.NewNopZapLogger()))
	e.GET("/boom", func(c echo.Context) error { panic("projection exploded") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "request_id")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestIDMiddleware_Propagates(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "from-client")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "from-client", rec.Header().Get(echo.HeaderXRequestID))
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := models.JWTConfig{Secret: "s3cret"}
	token, err := jwtpkg.GenerateToken("user-7", time.Hour, cfg)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/api/me", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string)+"|"+c.Get("token").(string))
	}, JWTAuthMiddleware(cfg))

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-7|"+token, rec.Body.String())
	})

	t.Run("query parameter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me?token="+token, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Token "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRateLimiterMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	e := echo.New()
	limited := RateLimiterMiddleware(RateLimiterConfig{
		RedisClient: client,
		Resource:    "create_transaction",
		Limit:       2,
		Period:      time.Minute,
	})
	e.POST("/api/transactions", ok, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", "user-1")
			return next(c)
		}
	}, limited)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.True(t, mr.Exists("rate:limit:create_transaction:user-1"))

	mr.FastForward(2 * time.Minute)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiterMiddleware_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	e := echo.New()
	e.POST("/api/transactions", ok, RateLimiterMiddleware(RateLimiterConfig{
		RedisClient: client, Resource: "create_transaction", Limit: 1, Period: time.Minute,
	}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
