package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/types"
)

// AuthMiddleware verifies the bearer access token and attaches the principal
// to the request context. Verification is stateless: no store lookup happens
// here, so a role change only takes effect once the access token expires.
func AuthMiddleware(tokens *auth.TokenService, logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			logger.Warn("authorization token missing",
				"method", ctx.Request.Method,
				"path", ctx.Request.URL.Path,
			)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token missing"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		claims, err := tokens.VerifyAccessToken(parts[1])

		if err != nil {
			logger.Warn("invalid or expired token",
				"method", ctx.Request.Method,
				"path", ctx.Request.URL.Path,
			)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, types.Principal{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		ctx.Next()
	}
}
