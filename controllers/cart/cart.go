package cartControllers

import (
	"net/http"

	"github.com/InfinitechAdCorp/izakayaadmin/cart"
	"github.com/InfinitechAdCorp/izakayaadmin/middleware"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/InfinitechAdCorp/izakayaadmin/pricing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Quantity bounds in the inputs mirror cart.MaxQuantity.
type AddItemInput struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity" binding:"max=999"`
}

type UpdateQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

type lineView struct {
	models.CartLineItem
	ImageURL  string  `json:"image_url"`
	LineTotal float64 `json:"line_total"`
}

type cartView struct {
	Items             []lineView `json:"items"`
	Subtotal          float64    `json:"subtotal"`
	ItemCount         int        `json:"item_count"`
	LineCount         int        `json:"line_count"`
	FormattedSubtotal string     `json:"formatted_subtotal"`
}

// Handlers serves the session cart.
type Handlers struct {
	Carts        *cart.Registry
	ImageBaseURL string
	Logger       *zap.Logger
}

func (h *Handlers) store(c *gin.Context) (*cart.Store, bool) {
	session, ok := middleware.Session(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return h.Carts.Get(c.Request.Context(), session.CartKey()), true
}

func (h *Handlers) view(snap cart.Snapshot) cartView {
	summary := pricing.Summarize(snap.Items, 0)
	lines := make([]lineView, 0, len(snap.Items))
	for _, item := range snap.Items {
		lines = append(lines, lineView{
			CartLineItem: item,
			ImageURL:     pricing.ImageURL(h.ImageBaseURL, item.Image),
			LineTotal:    pricing.Subtotal([]models.CartLineItem{item}),
		})
	}
	return cartView{
		Items:             lines,
		Subtotal:          summary.Subtotal,
		ItemCount:         summary.ItemCount,
		LineCount:         summary.LineCount,
		FormattedSubtotal: summary.FormattedSubtotal,
	}
}

// respond answers with the cart; a persistence failure is logged but the
// in-memory cart is still returned.
func (h *Handlers) respond(c *gin.Context, store *cart.Store, status int, err error) {
	if err != nil {
		h.Logger.Warn("Cart change not persisted", zap.String("key", store.Key()), zap.Error(err))
	}
	c.JSON(status, h.view(store.Snapshot()))
}

// GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(store.Snapshot()))
}

// POST /api/cart/items
func (h *Handlers) AddItem(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var input AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := store.AddItem(c.Request.Context(), input.Product, input.Quantity)
	h.respond(c, store, http.StatusCreated, err)
}

// PUT /api/cart/items/:id
func (h *Handlers) UpdateQuantity(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var input UpdateQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := store.UpdateQuantity(c.Request.Context(), models.ItemID(c.Param("id")), *input.Quantity)
	h.respond(c, store, http.StatusOK, err)
}

// DELETE /api/cart/items/:id
func (h *Handlers) RemoveItem(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	err := store.RemoveItem(c.Request.Context(), models.ItemID(c.Param("id")))
	h.respond(c, store, http.StatusOK, err)
}

// DELETE /api/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	err := store.ClearCart(c.Request.Context())
	h.respond(c, store, http.StatusOK, err)
}
