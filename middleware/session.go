package middleware

import (
	"net/http"
	"strings"

	"github.com/InfinitechAdCorp/izakayaadmin/auth"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// RequireSession rejects requests without a valid session token and stores
// the session on the context.
func RequireSession(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(auth.SessionHeader)
		if tokenString == "" {
			// Browsers cannot set headers on a websocket handshake.
			tokenString = c.Query("session_token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session token is missing"})
			return
		}

		session, err := issuer.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session token"})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// Session returns the session stored by RequireSession.
func Session(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	s, ok := v.(models.Session)
	return s, ok
}

// BearerToken is the user's backend token from the Authorization header, if any.
func BearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
