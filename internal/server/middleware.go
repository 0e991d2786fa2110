package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eventdiscovery/internal/server/auth"
)

const userContextKey = "currentUser"

// authFailedMessage is the single body returned for every credential
// failure. Missing header, malformed token, expiry, and deleted-user all
// look identical from outside.
const authFailedMessage = "not authorized"

// AuthRequired verifies the bearer token on every protected request,
// resolves it to a stored user, and attaches that user to the context so
// handlers never re-verify within the same request.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := auth.VerifyToken(tokenString, s.cfg.Secret())
		if err != nil {
			jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
			c.Abort()
			return
		}

		// A valid signature can still belong to a deleted account.
		var user User
		if err := s.db.Preload("Interests").First(&user, userID).Error; err != nil {
			jsonMessage(c, http.StatusUnauthorized, authFailedMessage)
			c.Abort()
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

// currentUser returns the user attached by AuthRequired.
func currentUser(c *gin.Context) (*User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok
}
