package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = models.JWTConfig{Secret: "test-secret", Issuer: "payon-backend"}

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken("user-1", time.Hour, cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestValidateToken_Rejects(t *testing.T) {
	expired, err := GenerateToken("user-1", -time.Minute, cfg)
	require.NoError(t, err)

	otherSecret, err := GenerateToken("user-1", time.Hour, models.JWTConfig{Secret: "other", Issuer: cfg.Issuer})
	require.NoError(t, err)

	otherIssuer, err := GenerateToken("user-1", time.Hour, models.JWTConfig{Secret: cfg.Secret, Issuer: "someone-else"})
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong secret": otherSecret,
		"wrong issuer": otherIssuer,
		"no user":      noUser,
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateToken(token, cfg)
			assert.Error(t, err)
		})
	}
}

func TestValidateToken_SubjectFallback(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-from-sub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	claims, err := ValidateToken(token, models.JWTConfig{Secret: cfg.Secret})
	require.NoError(t, err)
	assert.Equal(t, "user-from-sub", claims.UserID)
}
