package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
)

// GracefulServer wraps Echo server with graceful shutdown capabilities
type GracefulServer struct {
	echo     *echo.Echo
	logger   *logger.ZapLogger
	addr     string
	timeout  time.Duration
	shutdown *ShutdownManager
}

// NewGracefulServer creates a server listening on cfg.Host:cfg.Port. Components
// registered on sm are closed after the HTTP server has drained.
func NewGracefulServer(e *echo.Echo, zapLogger *logger.ZapLogger, cfg models.ServerConfig, sm *ShutdownManager) *GracefulServer {
	e.Server.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second

	timeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if sm == nil {
		sm = NewShutdownManager(zapLogger)
	}
	return &GracefulServer{
		echo:     e,
		logger:   zapLogger,
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		timeout:  timeout,
		shutdown: sm,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down
func (s *GracefulServer) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", logger.String("address", s.addr))
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			s.logger.Error("HTTP server failed", logger.Err(err))
			return err
		}
	case <-ctx.Done():
		s.logger.Info("Received shutdown signal")
	}
	return s.Shutdown()
}

// Shutdown drains the HTTP server then closes registered components
func (s *GracefulServer) Shutdown() error {
	s.logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.echo.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server forced to shutdown", logger.Err(err))
	}
	s.shutdown.Shutdown(ctx)

	s.logger.Info("Server shutdown completed")
	return err
}

// ShutdownManager runs cleanup functions in reverse registration order
type ShutdownManager struct {
	logger    *logger.ZapLogger
	functions []namedFunc
}

type namedFunc struct {
	name string
	fn   func(context.Context) error
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager(zapLogger *logger.ZapLogger) *ShutdownManager {
	return &ShutdownManager{logger: zapLogger}
}

// Register adds a cleanup function to be called during shutdown
func (sm *ShutdownManager) Register(name string, fn func(context.Context) error) {
	sm.functions = append(sm.functions, namedFunc{name: name, fn: fn})
}

// Shutdown executes every registered function; failures are logged and do not stop the rest
func (sm *ShutdownManager) Shutdown(ctx context.Context) {
	for i := len(sm.functions) - 1; i >= 0; i-- {
		f := sm.functions[i]
		if err := f.fn(ctx); err != nil {
			sm.logger.Error("Error during component shutdown",
				logger.String("component", f.name),
				logger.Err(err))
		}
	}
}
