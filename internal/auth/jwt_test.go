package auth

import (
	"testing"
	"time"

	"adhub/config"

	"github.com/stretchr/testify/require"
)

func testJWT() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "adhub-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWT()
	tok, err := GenerateAccessToken(cfg, 42, "a@example.com", "ADMIN")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, tok)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "a@example.com", claims.Email)
	require.Equal(t, "ADMIN", claims.Role)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	cfg := testJWT()
	refresh, err := GenerateRefreshToken(cfg, 7)
	require.NoError(t, err)

	id, err := ParseRefreshToken(cfg, refresh)
	require.NoError(t, err)
	require.Equal(t, uint(7), id)

	_, err = ParseAccessToken(cfg, refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	cfg := testJWT()
	cfg.AccessExpiry = -time.Minute
	tok, err := GenerateAccessToken(cfg, 1, "a@example.com", "CLIENT")
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}
