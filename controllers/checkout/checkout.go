package checkoutControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/InfinitechAdCorp/izakayaadmin/cart"
	"github.com/InfinitechAdCorp/izakayaadmin/checkout"
	"github.com/InfinitechAdCorp/izakayaadmin/controllers/respond"
	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/middleware"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/InfinitechAdCorp/izakayaadmin/pricing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderLister verifies a user token by listing one order.
type OrderLister interface {
	ListOrders(ctx context.Context, token string, query url.Values) ([]json.RawMessage, error)
}

type Handlers struct {
	Carts        *cart.Registry
	Sessions     *checkout.Sessions
	Orchestrator *checkout.Orchestrator
	Orders       OrderLister
	Logger       *zap.Logger
}

type checkoutView struct {
	checkout.View
	Summary pricing.Summary       `json:"summary"`
	Items   []models.CartLineItem `json:"items"`
}

// open returns the session's cart and form. A completed form is replaced
// once the cart has been filled again.
func (h *Handlers) open(c *gin.Context) (*cart.Store, *checkout.Session, bool) {
	session, ok := middleware.Session(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, nil, false
	}
	store := h.Carts.Get(c.Request.Context(), session.CartKey())
	form := h.Sessions.Get(session.ID)
	if form.State() == checkout.StateSucceeded && !store.IsEmpty() {
		h.Sessions.Discard(session.ID)
		form = h.Sessions.Get(session.ID)
	}
	return store, form, true
}

func render(store *cart.Store, form *checkout.Session) checkoutView {
	v := form.View()
	items := store.Items()
	return checkoutView{
		View:    v,
		Summary: pricing.Summarize(items, v.DeliveryFee),
		Items:   items,
	}
}

// GET /api/checkout
func (h *Handlers) GetCheckout(c *gin.Context) {
	store, form, ok := h.open(c)
	if !ok {
		return
	}
	if store.IsEmpty() && form.State() != checkout.StateSucceeded {
		c.JSON(http.StatusOK, gin.H{"empty": true, "redirect_to": checkout.CartPath})
		return
	}
	c.JSON(http.StatusOK, render(store, form))
}

// PUT /api/checkout
func (h *Handlers) UpdateCheckout(c *gin.Context) {
	store, form, ok := h.open(c)
	if !ok {
		return
	}

	var input checkout.Update
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if err := form.Apply(input, middleware.BearerToken(c)); err != nil {
		respond.Error(c, err, "Failed to update checkout")
		return
	}
	c.JSON(http.StatusOK, render(store, form))
}

// POST /api/checkout/prefill fills the form from the logged-in user's profile
// once the user's token has been checked against the backend.
func (h *Handlers) Prefill(c *gin.Context) {
	store, form, ok := h.open(c)
	if !ok {
		return
	}

	token := middleware.BearerToken(c)
	if token == "" {
		respond.Error(c, errs.NewAuthRequired(), errs.MsgAuthRequired)
		return
	}

	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if _, err := h.Orders.ListOrders(c.Request.Context(), token, url.Values{"page": {"1"}, "per_page": {"1"}}); err != nil {
		h.Logger.Info("Rejected stale user token at checkout", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":             "Your session has expired. Please log in again.",
			"clear_credentials": true,
		})
		return
	}

	form.Prefill(profile, token)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Your information has been automatically filled.",
		"checkout": render(store, form),
	})
}

// POST /api/checkout/submit
func (h *Handlers) Submit(c *gin.Context) {
	store, form, ok := h.open(c)
	if !ok {
		return
	}

	result, err := h.Orchestrator.Submit(c.Request.Context(), form, store, middleware.BearerToken(c))
	if err != nil {
		respond.Error(c, err, errs.MsgOrderFailed)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Order " + result.OrderNumber + " has been created.",
		"order_number": result.OrderNumber,
		"redirect_to":  result.RedirectTo,
		"order":        result.Order,
	})
}

// DELETE /api/checkout abandons the form and any pending fee lookup.
func (h *Handlers) DiscardCheckout(c *gin.Context) {
	session, ok := middleware.Session(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	h.Sessions.Discard(session.ID)
	c.Status(http.StatusNoContent)
}
