package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHeader carries the session token on every session-scoped request.
const SessionHeader = "X-Session-Token"

type Claims struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue opens a new session and returns its signed token.
func (i *Issuer) Issue() (models.Session, string, error) {
	now := time.Now()
	session := models.Session{
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(i.ttl),
	}

	claims := Claims{
		SessionID: session.ID,
		Role:      "guest",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return models.Session{}, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return session, token, nil
}

// Parse validates a token and returns the session it names.
func (i *Issuer) Parse(tokenString string) (models.Session, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Session{}, fmt.Errorf("invalid session token: %w", err)
	}
	if claims.SessionID == "" {
		return models.Session{}, errors.New("invalid session token: no session id")
	}

	session := models.Session{ID: claims.SessionID}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// POST /api/session
func CreateSession(issuer *Issuer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, token, err := issuer.Issue()
		if err != nil {
			logger.Error("Session token generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.Header(SessionHeader, token)
		c.JSON(http.StatusOK, gin.H{
			"session_id": session.ID,
			"token":      token,
			"expires_at": session.ExpiresAt,
		})
	}
}
