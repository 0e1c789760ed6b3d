package testimonialControllers

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/upstream"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Forwarder interface {
	Forward(ctx context.Context, method, path, auth string, body []byte) (*upstream.Response, error)
}

// relay forwards the request to path and passes a successful JSON answer
// through. Every failure becomes a 500 carrying failure as its error.
func relay(c *gin.Context, client Forwarder, logger *zap.Logger, method, path, failure string) {
	var body []byte
	if method == http.MethodPost || method == http.MethodPut {
		var err error
		if body, err = io.ReadAll(c.Request.Body); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
			return
		}
	}

	resp, err := client.Forward(c.Request.Context(), method, path, "", body)
	if err == nil && (!resp.OK() || !resp.JSON()) {
		err = &errs.UpstreamRejectedError{
			Op:      method + " " + path,
			Status:  resp.Status,
			Message: "Backend returned " + http.StatusText(resp.Status),
		}
	}
	if err != nil {
		logger.Error("Testimonials request failed", zap.String("method", method), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", resp.Body)
}

func testimonialPath(c *gin.Context) string {
	return "/api/testimonials/" + url.PathEscape(c.Param("id"))
}

// GET /api/testimonials
func GetTestimonials(client Forwarder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		relay(c, client, logger, http.MethodGet, "/api/testimonials", "Failed to fetch testimonials")
	}
}

// POST /api/testimonials
func CreateTestimonial(client Forwarder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		relay(c, client, logger, http.MethodPost, "/api/testimonials", "Failed to submit testimonial")
	}
}

// PUT /api/testimonials/:id
func UpdateTestimonial(client Forwarder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		relay(c, client, logger, http.MethodPut, testimonialPath(c), "Failed to update testimonial")
	}
}

// DELETE /api/testimonials/:id
func DeleteTestimonial(client Forwarder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		relay(c, client, logger, http.MethodDelete, testimonialPath(c), "Failed to delete testimonial")
	}
}
