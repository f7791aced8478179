// Package context carries per-request values (request id, user, bearer token)
// from the HTTP edge down to backend calls.
package context

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey represents a key for context values
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UserIDKey    ContextKey = "user_id"
	TokenKey     ContextKey = "bearer_token"
)

// WithRequestID adds a request ID to the context, generating one when empty
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}

// WithUserID adds a user ID to the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// WithToken stores the caller's bearer token so backend calls can forward it
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

// GetToken returns the bearer token stored by WithToken
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

// Detach returns a context that keeps the request values of parent but is
// never cancelled by it. Live subscriptions outlive the request that started them.
func Detach(parent context.Context) context.Context {
	ctx := context.Background()
	if id := GetRequestID(parent); id != "" {
		ctx = context.WithValue(ctx, RequestIDKey, id)
	}
	if id := GetUserID(parent); id != "" {
		ctx = context.WithValue(ctx, UserIDKey, id)
	}
	if token := GetToken(parent); token != "" {
		ctx = context.WithValue(ctx, TokenKey, token)
	}
	return ctx
}

// FromEcho builds a request context from values set by the auth and request id middlewares
func FromEcho(c echo.Context) context.Context {
	ctx := c.Request().Context()
	ctx = WithRequestID(ctx, c.Response().Header().Get(echo.HeaderXRequestID))
	if userID, ok := c.Get("user_id").(string); ok {
		ctx = WithUserID(ctx, userID)
	}
	if token, ok := c.Get("token").(string); ok {
		ctx = WithToken(ctx, token)
	}
	return ctx
}
