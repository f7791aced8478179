package middleware

import (
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/payon/internal/pkg/logger"
)

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
}

// PanicRecoveryMiddleware turns a handler panic into a logged 500 response
func PanicRecoveryMiddleware(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, zapLogger)
					err = nil
				}
			}()
			return next(c)
		}
	}
}

func handlePanic(c echo.Context, r interface{}, zapLogger *logger.ZapLogger) {
	stack := string(debug.Stack())
	req := c.Request()
	requestID := getRequestID(c)

	txn := newrelic.FromContext(req.Context())
	if txn != nil {
		txn.NoticeError(newrelic.Error{
			Message: fmt.Sprintf("Panic: %v", r),
			Class:   "PanicError",
			Attributes: map[string]interface{}{
				"request.method": req.Method,
				"request.path":   req.URL.Path,
			},
		})
	}

	zapLogger.WithNewRelicContext(txn).Error("Panic recovered",
		logger.String("panic", fmt.Sprintf("%v", r)),
		logger.String("panic_type", fmt.Sprintf("%T", r)),
		logger.String("method", req.Method),
		logger.String("path", req.URL.Path),
		logger.String("client_ip", c.RealIP()),
		logger.String("request_id", requestID),
		logger.Any("headers", safeHeaders(req.Header)),
		logger.Int("goroutines", runtime.NumGoroutine()),
		logger.String("stack_trace", stack),
	)

	if c.Response().Committed {
		return
	}
	body := map[string]interface{}{
		"success": false,
		"error":   "Internal Server Error",
		"code":    http.StatusInternalServerError,
	}
	if requestID != "" {
		body["request_id"] = requestID
	}
	if err := c.JSON(http.StatusInternalServerError, body); err != nil {
		_ = c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}

func safeHeaders(headers http.Header) map[string]string {
	safe := make(map[string]string, len(headers))
	for name, values := range headers {
		if !sensitiveHeaders[strings.ToLower(name)] && len(values) > 0 {
			safe[name] = values[0]
		}
	}
	return safe
}

func getRequestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
