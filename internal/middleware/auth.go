package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/agora/internal/models"
	"github.com/thereayou/agora/pkg/auth"
)

const IdentityKey = "identity"

// Порты middleware: реализуются JWTManager, TokenBlacklist и
// IdentityResolver соответственно.
type TokenVerifier interface {
	Verify(accessToken string) (*auth.Claims, error)
}

type Blacklist interface {
	Contains(ctx context.Context, token string) (bool, error)
}

type IdentityResolver interface {
	Resolve(subject string) (*models.Identity, error)
}

// AuthMiddleware проверяет JWT, чёрный список и живость аккаунта,
// затем кладёт личность запроса в контекст. Никакого глобального
// security-context: дальше личность передаётся явно.
func AuthMiddleware(jwtManager TokenVerifier, blacklist Blacklist, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			c.Abort()
			return
		}

		revoked, err := blacklist.Contains(c.Request.Context(), token)
		if err != nil || revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token is blacklisted"})
			c.Abort()
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		identity, err := resolver.Resolve(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown or inactive user"})
			c.Abort()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// MustIdentity достаёт личность, положенную AuthMiddleware.
func MustIdentity(c *gin.Context) *models.Identity {
	return c.MustGet(IdentityKey).(*models.Identity)
}
