package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobdeck/jobdeck/internal/domain/account"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type AccountResolver interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

type AuthMiddleware struct {
	jwt      TokenVerifier
	accounts AccountResolver
}

func NewAuthMiddleware(jwt TokenVerifier, accounts AccountResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:      jwt,
		accounts: accounts,
	}
}

const ctxAccountKey = "auth.account"

// RequireAuth resolves the bearer token to a concrete account. A
// missing token, a bad token and a token whose subject no longer
// exists all get the same answer, so a caller cannot tell which
// case occurred.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			unauthorized(c)
			return
		}

		subjectID, err := m.jwt.VerifyToken(raw)
		if err != nil {
			unauthorized(c)
			return
		}

		resolved, err := m.accounts.GetByID(c.Request.Context(), subjectID)
		if err != nil {
			unauthorized(c)
			return
		}

		// The resolved account is the identity context for every
		// downstream authorization decision.
		c.Set(ctxAccountKey, resolved)

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "Could not validate credentials",
		},
	})
}

// Helper so handlers don't need to know the magic key.

func AccountFromContext(c *gin.Context) (account.Account, bool) {
	v, ok := c.Get(ctxAccountKey)
	if !ok {
		return account.Account{}, false
	}
	a, ok := v.(account.Account)
	return a, ok
}
