package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminCookie = "auth_token"

// RequireAdminCookie sends visitors without an auth_token cookie back to the
// public entry page.
func RequireAdminCookie(entryPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusTemporaryRedirect, entryPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
