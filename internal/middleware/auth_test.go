package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

func newMiddlewareHarness(t *testing.T) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	tokens, err := auth.NewTokenService("access-secret", "refresh-secret", auth.DefaultAccessTTL, auth.DefaultRefreshTTL, st.RefreshTokens())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.GET("/protected", AuthMiddleware(tokens, logger), func(ctx *gin.Context) {
		principal, err := utils.CurrentPrincipal(ctx)
		require.NoError(t, err)
		ctx.JSON(http.StatusOK, principal)
	})

	return r, tokens
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r, _ := newMiddlewareHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization token missing")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r, _ := newMiddlewareHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r, _ := newMiddlewareHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthMiddlewareAttachesPrincipal(t *testing.T) {
	r, tokens := newMiddlewareHarness(t)

	user := &models.User{Email: "a@test.com", Role: models.RoleManager}
	user.ID = 3
	token, err := tokens.IssueAccessToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":3`)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
}
