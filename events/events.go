package events

import (
	"context"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/google/uuid"
)

// OrderPlacedEvent is emitted once per successful checkout.
type OrderPlacedEvent struct {
	EventID       string                    `json:"event_id"`
	OrderNumber   string                    `json:"order_number"`
	SessionID     string                    `json:"session_id"`
	CustomerName  string                    `json:"customer_name"`
	CustomerEmail string                    `json:"customer_email"`
	PaymentMethod models.PaymentMethod      `json:"payment_method"`
	City          string                    `json:"delivery_city"`
	Items         []models.OrderPayloadItem `json:"items"`
	ItemCount     int                       `json:"item_count"`
	Subtotal      float64                   `json:"subtotal"`
	DeliveryFee   float64                   `json:"delivery_fee"`
	Total         float64                   `json:"total"`
	Timestamp     time.Time                 `json:"timestamp"`
}

// NewOrderPlaced stamps an event id and time onto e.
func NewOrderPlaced(e OrderPlacedEvent) OrderPlacedEvent {
	e.EventID = uuid.NewString()
	e.Timestamp = time.Now().UTC()
	return e
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlacedEvent) error { return nil }
func (NoopPublisher) HealthCheck(context.Context) error { return nil }
func (NoopPublisher) Close() error { return nil }
