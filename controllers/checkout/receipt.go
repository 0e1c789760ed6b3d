package checkoutControllers

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var unsafeFilename = regexp.MustCompile(`[^\w\d\-_\.]`)

func receiptName(original string, now time.Time) string {
	cleanName := unsafeFilename.ReplaceAllString(original, "_")
	return fmt.Sprintf("%d_%s", now.Unix(), cleanName)
}

// POST /api/checkout/receipt records the name of the attached receipt.
// The file itself is not stored.
func (h *Handlers) AttachReceipt(c *gin.Context) {
	store, form, ok := h.open(c)
	if !ok {
		return
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	filename := receiptName(file.Filename, time.Now())
	form.SetReceipt(filename)
	h.Logger.Info("Receipt attached", zap.String("session_id", form.ID()), zap.String("file", filename))

	c.JSON(http.StatusOK, gin.H{
		"message":  "Receipt attached",
		"checkout": render(store, form),
	})
}

// DELETE /api/checkout/receipt
func (h *Handlers) RemoveReceipt(c *gin.Context) {
	store, form, ok := h.open(c)
	if !ok {
		return
	}
	form.ClearReceipt()
	c.JSON(http.StatusOK, gin.H{
		"message":  "Receipt removed",
		"checkout": render(store, form),
	})
}
