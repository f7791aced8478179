package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/payon/internal/pkg/jwt"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/internal/utils"
)

// BearerToken extracts the token from "Authorization: Bearer <token>", falling back
// to the token query parameter browsers use for websocket upgrades
func BearerToken(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.QueryParam("token")
}

// JWTAuthMiddleware validates the backend-issued token and exposes user_id and token to handlers
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			claims, err := jwtpkg.ValidateToken(token, config)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("token", token)
			return next(c)
		}
	}
}
