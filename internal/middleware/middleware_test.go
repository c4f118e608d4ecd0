package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adhub/config"
	"adhub/internal/auth"
	"adhub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthAndAdmin(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "s", AccessExpiry: time.Minute}
	r := gin.New()
	r.GET("/me", AuthRequired(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	r.GET("/admin", AuthRequired(cfg), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	do := func(path, header string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	client, err := auth.GenerateAccessToken(cfg, 1, "c@example.com", domain.RoleClient)
	require.NoError(t, err)
	admin, err := auth.GenerateAccessToken(cfg, 2, "a@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, do("/me", ""))
	require.Equal(t, http.StatusUnauthorized, do("/me", "Token "+client))
	require.Equal(t, http.StatusUnauthorized, do("/me", "Bearer garbage"))
	require.Equal(t, http.StatusOK, do("/me", "Bearer "+client))
	require.Equal(t, http.StatusForbidden, do("/admin", "Bearer "+client))
	require.Equal(t, http.StatusNoContent, do("/admin", "Bearer "+admin))
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("ip"))
	require.True(t, l.Allow("ip"))
	require.False(t, l.Allow("ip"))
	require.True(t, l.Allow("other"))

	now = now.Add(61 * time.Second)
	require.True(t, l.Allow("ip"))
}
