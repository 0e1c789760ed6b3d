package cartControllers

import (
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/cart"
	"github.com/InfinitechAdCorp/izakayaadmin/events"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type badge struct {
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
}

// GET /api/cart/ws pushes the item count after every cart change.
func (h *Handlers) CartWebSocket(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	conn, err := events.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	updates := make(chan badge, 8)
	unsubscribe := store.Subscribe(func(snap cart.Snapshot) {
		select {
		case updates <- badge{ItemCount: snap.ItemCount, Subtotal: snap.Total}:
		default:
			// A slow client only needs the latest count.
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snap := store.Snapshot()
	current := badge{ItemCount: snap.ItemCount, Subtotal: snap.Total}
	for {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(current); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Debug("Cart badge stream closed", zap.Error(err))
			}
			return
		}
		select {
		case current = <-updates:
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
