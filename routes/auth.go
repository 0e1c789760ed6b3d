package routes

import (
	"github.com/InfinitechAdCorp/izakayaadmin/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers session bootstrap and login.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	{
		// Anonymous browser session for cart and checkout
		api.POST("/session", auth.CreateSession(d.Issuer, d.Logger))

		// Backend login behind reCAPTCHA
		api.POST("/auth/login", auth.Login(d.Client, d.Captcha, d.Logger))
	}
}
