package models

import "strings"

type OrderStatus string
type PaymentMethod string

const (
	// Order statuses as reported by the backend
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Accepted by the kitchen
	OrderStatusPreparing OrderStatus = "preparing" // Being cooked
	OrderStatusReady     OrderStatus = "ready"     // Ready for pickup / dispatch
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the order
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before dispatch

	// Payment methods accepted at checkout
	PaymentCash   PaymentMethod = "cash"
	PaymentGCash  PaymentMethod = "gcash"
	PaymentPayPal PaymentMethod = "paypal"
	PaymentBPI    PaymentMethod = "bpi"
	PaymentMaya   PaymentMethod = "maya"
)

// DefaultCategory is sent for cart lines that carry no category.
const DefaultCategory = "Japanese Food"

var paymentMethods = []PaymentMethod{PaymentCash, PaymentGCash, PaymentPayPal, PaymentBPI, PaymentMaya}

// ParsePaymentMethod maps a string to one of the accepted payment methods.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range paymentMethods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// RequiresReceipt reports whether the method is paid ahead through a transfer.
func (m PaymentMethod) RequiresReceipt() bool {
	return m != PaymentCash && m != ""
}

// ParseOrderStatus accepts the statuses the order history can be filtered by.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(strings.ToLower(s)), true
	}
	return "", false
}

// OrderPayload is the order-creation request sent to the backend.
type OrderPayload struct {
	Items           []OrderPayloadItem `json:"items"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`
	DeliveryAddress string             `json:"delivery_address"`
	DeliveryCity    string             `json:"delivery_city"`
	DeliveryZipCode string             `json:"delivery_zip_code"`
	DeliveryFee     float64            `json:"delivery_fee"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	ReceiptFile     string             `json:"receipt_file"`
	Notes           string             `json:"notes"`
}

type OrderPayloadItem struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Category     string  `json:"category"`
	IsSpicy      bool    `json:"is_spicy"`
	IsVegetarian bool    `json:"is_vegetarian"`
	ImageURL     string  `json:"image_url"`
}

// PlacedOrder is the order object returned by the backend after creation.
type PlacedOrder struct {
	ID            interface{} `json:"id,omitempty"`
	OrderNumber   string      `json:"order_number"`
	OrderStatus   OrderStatus `json:"order_status,omitempty"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	TotalAmount   Price       `json:"total_amount,omitempty"`
	CreatedAt     string      `json:"created_at,omitempty"`
}
