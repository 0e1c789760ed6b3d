package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/cart"
	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/events"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/InfinitechAdCorp/izakayaadmin/pricing"
	"go.uber.org/zap"
)

const (
	CartPath   = "/cart"
	OrdersPath = "/orders"

	announceTimeout = 10 * time.Second
)

// OrderCreator places orders with the backend. upstream.Client implements it.
type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, payload models.OrderPayload) (*models.PlacedOrder, error)
}

// Broadcaster receives every placed order, e.g. the admin live feed.
type Broadcaster interface {
	Broadcast(v interface{})
}

type Result struct {
	OrderNumber string              `json:"order_number"`
	RedirectTo  string              `json:"redirect_to"`
	Order       *models.PlacedOrder `json:"order"`
}

type Orchestrator struct {
	orders    OrderCreator
	publisher events.Publisher
	feed      Broadcaster
	logger    *zap.Logger

	pending sync.WaitGroup
}

// NewOrchestrator wires submission to the backend. publisher and feed may be nil.
func NewOrchestrator(orders OrderCreator, publisher events.Publisher, feed Broadcaster, logger *zap.Logger) *Orchestrator {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Orchestrator{orders: orders, publisher: publisher, feed: feed, logger: logger}
}

// Submit places the order for the session's form and cart.
//
// Precondition failures leave the session idle and make no backend call: an
// empty cart returns errs.ErrCartEmpty, blank contact fields a
// *errs.ValidationError, and a blank token an *errs.AuthRequiredError. A
// backend failure moves the session to failed and keeps the cart; success
// clears the cart and is terminal.
//
// Once the session is processing the caller's cancellation no longer applies:
// the order runs to completion bounded by the backend client's own timeout.
func (o *Orchestrator) Submit(ctx context.Context, s *Session, store *cart.Store, token string) (*Result, error) {
	if store.IsEmpty() {
		return nil, errs.ErrCartEmpty
	}

	sub, err := s.begin(token)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	fee, err := s.tracker.Flush(ctx)
	if err != nil {
		o.logger.Warn("Delivery fee still pending at submission", zap.String("session_id", s.id), zap.Error(err))
	}

	items := store.Items()
	payload := buildPayload(sub, items, fee)

	order, err := o.orders.CreateOrder(ctx, token, payload)
	if err != nil {
		o.logger.Warn("Order submission failed",
			zap.String("session_id", s.id),
			zap.String("payment_method", string(sub.payment)),
			zap.Error(err),
		)
		if ferr := s.finish("", err); ferr != nil {
			o.logger.Error("Checkout state out of sync", zap.Error(ferr))
		}
		return nil, err
	}

	if err := store.ClearCart(ctx); err != nil {
		o.logger.Error("Order placed but cart could not be persisted empty",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
	if err := s.finish(order.OrderNumber, nil); err != nil {
		o.logger.Error("Checkout state out of sync", zap.Error(err))
	}

	o.logger.Info("Order placed",
		zap.String("session_id", s.id),
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(items)),
	)
	o.announce(s.id, sub, payload, items, order)

	return &Result{OrderNumber: order.OrderNumber, RedirectTo: OrdersPath, Order: order}, nil
}

// Wait blocks until every order event handed to the publisher has been sent
// or dropped.
func (o *Orchestrator) Wait() {
	o.pending.Wait()
}

func (o *Orchestrator) announce(sessionID string, sub submission, payload models.OrderPayload, items []models.CartLineItem, order *models.PlacedOrder) {
	summary := pricing.Summarize(items, payload.DeliveryFee)
	event := events.NewOrderPlaced(events.OrderPlacedEvent{
		OrderNumber:   order.OrderNumber,
		SessionID:     sessionID,
		CustomerName:  sub.contact.Name,
		CustomerEmail: sub.contact.Email,
		PaymentMethod: sub.payment,
		City:          sub.contact.City,
		Items:         payload.Items,
		ItemCount:     summary.ItemCount,
		Subtotal:      summary.Subtotal,
		DeliveryFee:   summary.DeliveryFee,
		Total:         summary.Total,
	})

	if o.feed != nil {
		o.feed.Broadcast(event)
	}

	// The order exists upstream already; a lost event must not fail checkout.
	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
		defer cancel()
		if err := o.publisher.PublishOrderPlaced(ctx, event); err != nil {
			o.logger.Warn("Order event not published", zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}()
}

func buildPayload(sub submission, items []models.CartLineItem, fee float64) models.OrderPayload {
	lines := make([]models.OrderPayloadItem, 0, len(items))
	for _, item := range items {
		category := item.Category
		if strings.TrimSpace(category) == "" {
			category = models.DefaultCategory
		}
		lines = append(lines, models.OrderPayloadItem{
			Name:         item.Name,
			Description:  item.Description,
			Price:        item.Price.Value(),
			Quantity:     item.Quantity,
			Category:     category,
			IsSpicy:      bool(item.IsSpicy),
			IsVegetarian: bool(item.IsVegetarian),
			ImageURL:     item.Image,
		})
	}

	return models.OrderPayload{
		Items:           lines,
		PaymentMethod:   sub.payment,
		DeliveryAddress: sub.contact.Address,
		DeliveryCity:    sub.contact.City,
		DeliveryZipCode: sub.contact.ZipCode,
		DeliveryFee:     fee,
		CustomerName:    sub.contact.Name,
		CustomerEmail:   sub.contact.Email,
		CustomerPhone:   sub.contact.Phone,
		ReceiptFile:     sub.receipt,
		Notes:           sub.notes,
	}
}
