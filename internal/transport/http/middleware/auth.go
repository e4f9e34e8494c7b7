package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-rules/internal/domain"
	"github.com/iamasit07/connect4-rules/pkg/auth"
)

const partyKey = "party"

// AuthMiddleware validates the bearer JWT and stores its subject as the
// calling party.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := auth.ValidateToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(partyKey, domain.Party(claims.Subject))
		c.Next()
	}
}

// Party returns the caller set by AuthMiddleware.
func Party(c *gin.Context) (domain.Party, bool) {
	v, ok := c.Get(partyKey)
	if !ok {
		return domain.Nobody, false
	}
	p, ok := v.(domain.Party)
	return p, ok && p != domain.Nobody
}
