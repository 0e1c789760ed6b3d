// Package auth issues browser session tokens and proxies credential login to
// the backend behind a CAPTCHA check.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/upstream"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) bool
}

type loginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken"`
}

// POST /api/auth/login
func Login(client *upstream.Client, verifier CaptchaVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid request body.",
				"error":   err.Error(),
			})
			return
		}

		if req.CaptchaToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "CAPTCHA verification is required.",
				"errors":  gin.H{"captcha": []string{"CAPTCHA token is missing"}},
			})
			return
		}

		if !verifier.Verify(c.Request.Context(), req.CaptchaToken) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "CAPTCHA verification failed. Please try again.",
				"errors":  gin.H{"captcha": []string{"CAPTCHA verification failed"}},
			})
			return
		}

		if req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Email and password are required.",
				"errors": gin.H{
					"email":    requiredMessage(req.Email, "Email is required"),
					"password": requiredMessage(req.Password, "Password is required"),
				},
			})
			return
		}

		resp, err := client.Login(c.Request.Context(), upstream.Credentials{
			Email:    strings.ToLower(strings.TrimSpace(req.Email)),
			Password: req.Password,
		})
		if err != nil {
			loginFailed(c, client, logger, err)
			return
		}

		if !resp.JSON() {
			logger.Error("Login response is not JSON", zap.Int("status", resp.Status))
			c.JSON(http.StatusBadGateway, gin.H{
				"success":     false,
				"message":     "Invalid response from server. Server may be down or returning HTML error page.",
				"error":       "Invalid JSON response",
				"rawResponse": resp.Excerpt(),
				"debug": gin.H{
					"url":        client.URL("/api/auth/login"),
					"status":     resp.Status,
					"statusText": http.StatusText(resp.Status),
				},
			})
			return
		}

		c.Data(resp.Status, "application/json", resp.Body)
	}
}

func requiredMessage(value, msg string) []string {
	if value == "" {
		return []string{msg}
	}
	return []string{}
}

func loginFailed(c *gin.Context, client *upstream.Client, logger *zap.Logger, err error) {
	logger.Error("Login error", zap.Error(err))

	var unavailable *errs.UpstreamUnavailableError
	if errors.As(err, &unavailable) && unavailable.NetworkFailure() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": errs.MsgBackendUnavailable,
			"error":   "Connection failed",
			"debug": gin.H{
				"errorType":    "NetworkError",
				"errorMessage": err.Error(),
				"apiUrl":       client.BaseURL(),
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Login failed. Please try again later.",
		"error":   err.Error(),
	})
}
