package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mlorenc/gotodo/internal/common"
)

// principalKey is the gin context key holding the authenticated user id.
const principalKey = "principalUserID"

// requireAuth validates the access token cookie and stores the principal
// user id in the request context. Requests without a valid token are
// rejected with 401 before any handler runs.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.AccessTokenCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := s.sessions.VerifyAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(principalKey, userID)
		c.Next()
	}
}

// principal returns the authenticated user id placed by requireAuth.
func principal(c *gin.Context) (int64, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return 0, false
	}
	userID, ok := v.(int64)
	return userID, ok
}
