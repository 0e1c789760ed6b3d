// Package respond converts the errs taxonomy into JSON error responses.
package respond

import (
	"errors"
	"net/http"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/upstream"
	"github.com/gin-gonic/gin"
)

// Error writes err with the status its kind maps to. fallback is shown when
// err carries no user-facing text of its own.
func Error(c *gin.Context, err error, fallback string) {
	status, body := classify(err, fallback)
	_ = c.Error(err)
	c.JSON(status, body)
}

// Passthrough relays a backend answer with its status. A body that is not
// JSON is reported as an invalid response instead.
func Passthrough(c *gin.Context, resp *upstream.Response) {
	if !resp.JSON() {
		Error(c, &errs.UpstreamUnavailableError{Status: resp.Status, Raw: resp.Excerpt()}, errs.MsgInvalidResponse)
		return
	}
	c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
}

func classify(err error, fallback string) (int, gin.H) {
	var (
		validation  *errs.ValidationError
		auth        *errs.AuthRequiredError
		rejected    *errs.UpstreamRejectedError
		unavailable *errs.UpstreamUnavailableError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, gin.H{"error": validation.Message, "fields": validation.Fields}
	case errors.As(err, &auth):
		return http.StatusUnauthorized, gin.H{"error": auth.Message, "redirect_to": auth.RedirectTo}
	case errors.Is(err, errs.ErrCartEmpty):
		return http.StatusBadRequest, gin.H{"error": "Your cart is empty", "redirect_to": "/cart"}
	case errors.Is(err, errs.ErrSubmissionInProgress), errors.Is(err, errs.ErrAlreadySubmitted):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, errs.ErrBackendNotConfigured):
		return http.StatusInternalServerError, gin.H{"error": err.Error()}
	case errors.As(err, &rejected):
		status := http.StatusBadGateway
		if rejected.Status >= 400 && rejected.Status < 500 {
			status = rejected.Status
		}
		return status, gin.H{"success": false, "error": errs.UserMessage(err, fallback)}
	case errors.As(err, &unavailable):
		if unavailable.NetworkFailure() {
			return http.StatusServiceUnavailable, gin.H{"success": false, "error": errs.MsgBackendUnavailable}
		}
		return http.StatusBadGateway, gin.H{
			"success":     false,
			"error":       errs.MsgInvalidResponse,
			"rawResponse": unavailable.Raw,
		}
	default:
		return http.StatusInternalServerError, gin.H{"error": fallback}
	}
}
