package reservationControllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/upstream"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const reservationsPath = "/api/reservations"

type Forwarder interface {
	Forward(ctx context.Context, method, path, auth string, body []byte) (*upstream.Response, error)
}

// GET /api/reservations forwards the caller's Authorization header.
func GetReservations(client Forwarder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		logger.Debug("Fetching reservations", zap.Bool("authorized", auth != ""))

		resp, err := client.Forward(c.Request.Context(), http.MethodGet, reservationsPath, auth, nil)
		if err == nil && (!resp.OK() || !resp.JSON()) {
			err = &errs.UpstreamRejectedError{Op: "list reservations", Status: resp.Status, Message: resp.Excerpt()}
		}
		if err != nil {
			logger.Error("❌ Failed to fetch reservations", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reservations"})
			return
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", resp.Body)
	}
}

// POST /api/reservations creates a reservation. Without an Authorization
// header the backend records it as a guest reservation.
func CreateReservation(client Forwarder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fail := func(err error) {
			logger.Error("❌ Failed to create reservation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to create reservation",
				"message": err.Error(),
			})
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			fail(err)
			return
		}
		if !json.Valid(body) {
			fail(errors.New("request body is not valid JSON"))
			return
		}

		auth := c.GetHeader("Authorization")
		if auth == "" {
			logger.Warn("⚠️ No authorization header, reservation will be created as guest")
		}

		resp, err := client.Forward(c.Request.Context(), http.MethodPost, reservationsPath, auth, body)
		if err != nil {
			fail(err)
			return
		}

		if !resp.JSON() {
			fail(errors.New(errs.MsgInvalidResponse))
			return
		}
		if !resp.OK() {
			var data struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(resp.Body, &data)
			if data.Message == "" {
				data.Message = "Failed to create reservation"
			}
			fail(errors.New(data.Message))
			return
		}

		logger.Info("✅ Reservation created", zap.Int("status", resp.Status))
		c.Data(http.StatusCreated, "application/json; charset=utf-8", resp.Body)
	}
}
