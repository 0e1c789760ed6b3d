package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedServer interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

// GET /admin/orders/ws streams every order placed through checkout.
func OrderWebSocketHandler(feed FeedServer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := feed.Serve(c.Writer, c.Request); err != nil {
			logger.Debug("Order feed connection ended", zap.Error(err))
		}
	}
}
