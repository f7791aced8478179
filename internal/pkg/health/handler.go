package health

import (
	"context"
	"errors"
	"net/http"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/payon/internal/pkg/circuitbreaker"
	"github.com/piresc/payon/internal/pkg/database"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/nats"
)

// BuildInfo contains information about the build
type BuildInfo struct {
	Version     string    `json:"version"`
	GitCommit   string    `json:"git_commit"`
	BuildTime   string    `json:"build_time"`
	ServiceName string    `json:"service_name"`
	GoVersion   string    `json:"go_version"`
	Hostname    string    `json:"hostname"`
	ServerTime  time.Time `json:"server_time"`
}

// DefaultBuildInfo contains default build information
var DefaultBuildInfo = BuildInfo{
	Version:   "development",
	GitCommit: "unknown",
	BuildTime: "unknown",
	GoVersion: runtime.Version(),
}

// NewPingHandler creates a handler for the ping endpoint
func NewPingHandler(serviceName string) echo.HandlerFunc {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	info := DefaultBuildInfo
	info.ServiceName = serviceName
	info.Hostname = hostname
	if version := os.Getenv("VERSION"); version != "" {
		info.Version = version
	}
	if gitCommit := os.Getenv("GIT_COMMIT"); gitCommit != "" {
		info.GitCommit = gitCommit
	}
	if buildTime := os.Getenv("BUILD_TIME"); buildTime != "" {
		info.BuildTime = buildTime
	}

	return func(c echo.Context) error {
		resp := info
		resp.ServerTime = time.Now()
		return c.JSON(http.StatusOK, resp)
	}
}

// Checker reports the health of one dependency
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker
type CheckerFunc func(ctx context.Context) error

// CheckHealth calls f
func (f CheckerFunc) CheckHealth(ctx context.Context) error { return f(ctx) }

// PostgresChecker pings the diagnostics database
func PostgresChecker(client *database.PostgresClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx)
	})
}

// RedisChecker pings the rate limiter store
func RedisChecker(client *database.RedisClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx)
	})
}

// NATSChecker reports whether the status event connection is up
func NATSChecker(client *nats.Client) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		if !client.IsConnected() {
			return errors.New("NATS not connected")
		}
		return nil
	})
}

// BreakerStats exposes circuit breaker counters of an outbound client
type BreakerStats interface {
	BreakerStats() map[string]circuitbreaker.Stats
}

// Service aggregates dependency checks
type Service struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	breakers BreakerStats
	logger   *logger.ZapLogger
}

// NewService creates a health service; breakers may be nil
func NewService(zapLogger *logger.ZapLogger, breakers BreakerStats) *Service {
	return &Service{
		checkers: make(map[string]Checker),
		breakers: breakers,
		logger:   zapLogger,
	}
}

// AddChecker registers a checker for a dependency
func (s *Service) AddChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
}

// Response is the body of /health/detailed
type Response struct {
	Status       string                    `json:"status"`
	Timestamp    time.Time                 `json:"timestamp"`
	Service      string                    `json:"service"`
	Version      string                    `json:"version,omitempty"`
	Dependencies map[string]DependencyInfo `json:"dependencies"`
	Breakers     []circuitbreaker.Stats    `json:"breakers,omitempty"`
}

// DependencyInfo represents health info for a dependency
type DependencyInfo struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Check runs every registered checker. An open breaker degrades the status
// without making the service unhealthy.
func (s *Service) Check(ctx context.Context) Response {
	resp := Response{
		Status:       "healthy",
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyInfo),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for name, checker := range s.checkers {
		if err := checker.CheckHealth(ctx); err != nil {
			s.logger.Error("Health check failed",
				logger.String("dependency", name),
				logger.Err(err))
			resp.Dependencies[name] = DependencyInfo{Status: "unhealthy", Error: err.Error()}
			resp.Status = "unhealthy"
			continue
		}
		resp.Dependencies[name] = DependencyInfo{Status: "healthy"}
	}

	if s.breakers != nil {
		stats := s.breakers.BreakerStats()
		for _, st := range stats {
			resp.Breakers = append(resp.Breakers, st)
			if st.State == circuitbreaker.StateOpen.String() && resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		}
		sort.Slice(resp.Breakers, func(i, j int) bool { return resp.Breakers[i].Name < resp.Breakers[j].Name })
	}
	return resp
}

// RegisterEndpoints mounts /ping, /health, /health/live, /health/ready and /health/detailed
func RegisterEndpoints(e *echo.Echo, serviceName, version string, svc *Service) {
	e.GET("/ping", NewPingHandler(serviceName))

	g := e.Group("/health")
	g.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   serviceName,
			"timestamp": time.Now(),
		})
	})

	g.GET("/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "alive",
			"service": serviceName,
		})
	})

	g.GET("/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		resp := svc.Check(ctx)
		resp.Service = serviceName
		if resp.Status == "unhealthy" {
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ready",
			"service": serviceName,
		})
	})

	g.GET("/detailed", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		resp := svc.Check(ctx)
		resp.Service = serviceName
		resp.Version = version

		code := http.StatusOK
		if resp.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, resp)
	})
}
