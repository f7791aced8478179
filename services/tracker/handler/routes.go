package handler

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/piresc/payon/internal/pkg/middleware"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/services/tracker/handler/http"
	"github.com/piresc/payon/services/tracker/handler/websocket"
)

// Handler coordinates the protocol handlers of the tracker service
type Handler struct {
	transactionHandler *http.TransactionHandler
	wsHandler          *websocket.TrackerWSHandler
	redisClient        *redis.Client
	cfg                *models.Config
}

// NewHandler creates and initializes all handlers. redisClient may be nil,
// which disables rate limiting.
func NewHandler(
	transactionHandler *http.TransactionHandler,
	wsHandler *websocket.TrackerWSHandler,
	redisClient *redis.Client,
	cfg *models.Config,
) *Handler {
	return &Handler{
		transactionHandler: transactionHandler,
		wsHandler:          wsHandler,
		redisClient:        redisClient,
		cfg:                cfg,
	}
}

// RegisterRoutes registers the HTTP API and the browser websocket
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api", middleware.JWTAuthMiddleware(h.cfg.JWT))

	create := []echo.MiddlewareFunc{}
	if h.cfg.RateLimit.Enabled && h.redisClient != nil {
		create = append(create, middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RedisClient: h.redisClient,
			Resource:    "create_transaction",
			Limit:       h.cfg.RateLimit.Limit,
			Period:      h.cfg.RateLimit.Period,
		}))
	}

	txGroup := api.Group("/transactions")
	txGroup.POST("", h.transactionHandler.CreateTransaction, create...)
	txGroup.GET("/:id/status", h.transactionHandler.GetStatus)
	txGroup.PATCH("/:id/comment", h.transactionHandler.UpdateComment)
	txGroup.GET("/:id/diagnostics", h.transactionHandler.ListDiagnostics)

	// The manager authenticates the upgrade itself, accepting ?token= from browsers
	e.GET("/ws", h.wsHandler.HandleWebSocket)
}
