package handler

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/payon/internal/pkg/jwt"
	"github.com/piresc/payon/internal/pkg/models"
	pkgws "github.com/piresc/payon/internal/pkg/websocket"
	"github.com/piresc/payon/services/tracker/handler/http"
	"github.com/piresc/payon/services/tracker/handler/websocket"
	"github.com/piresc/payon/services/tracker/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, cfg *models.Config, rdb *redis.Client) (*echo.Echo, *mocks.MockTrackerUC) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	h := NewHandler(
		http.NewTransactionHandler(uc),
		websocket.NewTrackerWSHandler(uc, pkgws.NewManager(cfg.JWT)),
		rdb,
		cfg,
	)
	e := echo.New()
	h.RegisterRoutes(e)
	return e, uc
}

func bearer(t *testing.T, cfg models.JWTConfig) string {
	token, err := jwtpkg.GenerateToken("user-1", time.Hour, cfg)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	cfg := &models.Config{JWT: models.JWTConfig{Secret: "s"}}
	e, _ := setup(t, cfg, nil)

	req := httptest.NewRequest("GET", "/api/transactions/tx-1/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, 401, rec.Code)
}

func TestRoutes_StatusIsRouted(t *testing.T) {
	cfg := &models.Config{JWT: models.JWTConfig{Secret: "s"}}
	e, uc := setup(t, cfg, nil)
	uc.EXPECT().GetView(gomock.Any(), "tx-1").Return(&models.TransactionView{TransactionID: "tx-1"}, nil)

	req := httptest.NewRequest("GET", "/api/transactions/tx-1/status", nil)
	req.Header.Set("Authorization", bearer(t, cfg.JWT))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
}

func TestRoutes_CreateIsRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := &models.Config{
		JWT:       models.JWTConfig{Secret: "s"},
		RateLimit: models.RateLimitConfig{Enabled: true, Limit: 1, Period: time.Minute},
	}
	e, uc := setup(t, cfg, rdb)
	uc.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(&models.Transaction{ID: "tx-1"}, nil)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(`{"recipient":"bob","amount":`+strconv.Itoa(i+1)+`}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Authorization", bearer(t, cfg.JWT))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{201, stdhttp.StatusTooManyRequests}, codes)
}
