package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/piresc/payon/internal/pkg/config"
	"github.com/piresc/payon/internal/pkg/database"
	"github.com/piresc/payon/internal/pkg/health"
	httpclient "github.com/piresc/payon/internal/pkg/http"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/middleware"
	natspkg "github.com/piresc/payon/internal/pkg/nats"
	nrpkg "github.com/piresc/payon/internal/pkg/newrelic"
	"github.com/piresc/payon/internal/pkg/observability"
	"github.com/piresc/payon/internal/pkg/retry"
	"github.com/piresc/payon/internal/pkg/riskcodes"
	"github.com/piresc/payon/internal/pkg/server"
	wspkg "github.com/piresc/payon/internal/pkg/websocket"
	"github.com/piresc/payon/services/tracker"
	"github.com/piresc/payon/services/tracker/channel"
	"github.com/piresc/payon/services/tracker/gateway"
	"github.com/piresc/payon/services/tracker/handler"
	httpHandler "github.com/piresc/payon/services/tracker/handler/http"
	wsHandler "github.com/piresc/payon/services/tracker/handler/websocket"
	"github.com/piresc/payon/services/tracker/repository"
	"github.com/piresc/payon/services/tracker/usecase"
	"go.uber.org/zap"
)

func main() {
	appName := "payon-tracker"
	configPath := flag.String("config", "config/tracker.env", "env file loaded when APP_ENV=local")
	flag.Parse()
	configs := config.InitConfig(*configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
		zap.String("transport", configs.Tracker.Transport),
	)

	if len(configs.Backend.RuleCodes) > 0 {
		if err := riskcodes.Validate(configs.Backend.RuleCodes); err != nil {
			zapLogger.Warn("Rejection message table is out of date", zap.Error(err))
		}
	}

	tracer := observability.New(nrApp)
	shutdown := server.NewShutdownManager(zapLogger)

	// Initialize Redis client, used by the rate limiter
	var redisClient *redis.Client
	rdb, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
	} else {
		redisClient = rdb.GetClient()
		shutdown.Register("redis", func(context.Context) error { return rdb.Close() })
	}

	// Diagnostics go to Postgres when enabled, in memory otherwise
	var diagRepo tracker.DiagnosticRepo
	var postgresClient *database.PostgresClient
	if configs.Database.Enabled {
		postgresClient, err = database.NewPostgresClient(configs.Database)
		if err != nil {
			zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		shutdown.Register("postgres", func(context.Context) error { return postgresClient.Close() })
		if err := database.RunMigrations(configs.Database); err != nil {
			zapLogger.Fatal("Failed to migrate PostgreSQL", zap.Error(err))
		}
		diagRepo = repository.NewDiagnosticRepository(postgresClient.GetDB(), tracer)
	} else {
		diagRepo = repository.NewMemoryDiagnosticRepository(repository.DefaultMemoryCapacity, repository.DefaultMemoryTransactions)
	}

	// Initialize NATS when it carries status events
	var natsClient *natspkg.Client
	if gateway.NeedsNATS(configs.Tracker.Transport) {
		natsClient, err = natspkg.NewClient(configs.NATS.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		shutdown.Register("nats", func(context.Context) error {
			natsClient.Close()
			return nil
		})
	}

	// Initialize Gateways
	backendClient := httpclient.NewClient(httpclient.Config{
		BaseURL:   configs.Backend.BaseURL,
		Timeout:   configs.Backend.Timeout,
		UserAgent: configs.Backend.UserAgent,
		Retry:     retry.DefaultConfig(),
	}, zapLogger)
	backendGW := gateway.NewHTTPGateway(backendClient)

	source, err := gateway.NewEventSource(configs, natsClient)
	if err != nil {
		zapLogger.Fatal("Failed to create event source", zap.Error(err))
	}
	if nsqSource, ok := source.(*gateway.NSQSource); ok {
		shutdown.Register("nsq", func(context.Context) error {
			nsqSource.Stop()
			return nil
		})
	}

	// Initialize UseCase
	statusChannel := channel.New(backendGW, source, channel.ConfigFrom(configs.Tracker), tracer, zapLogger)
	manager := wspkg.NewManager(configs.JWT)
	trackerUC := usecase.NewTrackerUC(backendGW, diagRepo, statusChannel, manager, zapLogger)
	shutdown.Register("tracker", func(context.Context) error {
		trackerUC.Close()
		return nil
	})

	// Handlers
	transactionHandler := httpHandler.NewTransactionHandler(trackerUC)
	trackerWS := wsHandler.NewTrackerWSHandler(trackerUC, manager)
	h := handler.NewHandler(transactionHandler, trackerWS, redisClient, configs)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(nrpkg.Middleware(nrApp))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	// Register health endpoints
	healthService := health.NewService(zapLogger, backendClient)
	if redisClient != nil {
		healthService.AddChecker("redis", health.RedisChecker(rdb))
	}
	if postgresClient != nil {
		healthService.AddChecker("postgres", health.PostgresChecker(postgresClient))
	}
	if natsClient != nil {
		healthService.AddChecker("nats", health.NATSChecker(natsClient))
	}
	health.RegisterEndpoints(e, appName, configs.App.Version, healthService)

	// Register service routes
	h.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server, shutdown)
	if err := srv.Run(context.Background()); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.Error(err))
	}
}
