package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/service"
)

const userContextKey = "currentUser"

// AuthMiddleware creates middleware that validates access tokens and loads
// the user onto the request context. The token is read from the access
// cookie, with an Authorization Bearer header as fallback for non-browser
// clients.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(AccessCookie)
		if token == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No access token provided"})
			return
		}

		user, err := authService.ValidateAccess(c.Request.Context(), token)
		if err != nil {
			if err == core.ErrTokenExpired {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(userContextKey, user)

		c.Next()
	}
}

// currentUser returns the authenticated user set by AuthMiddleware
func currentUser(c *gin.Context) (*core.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*core.User)
	return user, ok
}
