// Package pricing derives cart figures. Nothing here mutates cart state.
package pricing

import (
	"strings"

	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary is what the cart and checkout pages display.
type Summary struct {
	Subtotal          float64 `json:"subtotal"`
	DeliveryFee       float64 `json:"delivery_fee"`
	Total             float64 `json:"total"`
	ItemCount         int     `json:"item_count"`
	LineCount         int     `json:"line_count"`
	FormattedSubtotal string  `json:"formatted_subtotal"`
	FormattedFee      string  `json:"formatted_delivery_fee"`
	FormattedTotal    string  `json:"formatted_total"`
}

func subtotal(items []models.CartLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		price := decimal.NewFromFloat(item.Price.Value())
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// Subtotal is the sum of price x quantity. Non-numeric prices count as 0.
func Subtotal(items []models.CartLineItem) float64 {
	return subtotal(items).InexactFloat64()
}

// ItemCount is the sum of quantities.
func ItemCount(items []models.CartLineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func Summarize(items []models.CartLineItem, deliveryFee float64) Summary {
	sub := subtotal(items)
	total := sub.Add(decimal.NewFromFloat(deliveryFee))
	return Summary{
		Subtotal:          sub.InexactFloat64(),
		DeliveryFee:       deliveryFee,
		Total:             total.InexactFloat64(),
		ItemCount:         ItemCount(items),
		LineCount:         len(items),
		FormattedSubtotal: FormatPrice(sub.InexactFloat64()),
		FormattedFee:      FormatPrice(deliveryFee),
		FormattedTotal:    FormatPrice(total.InexactFloat64()),
	}
}

var printer = message.NewPrinter(language.English)

// FormatPrice renders two decimals with grouped thousands, e.g. 1,234.50.
func FormatPrice(v float64) string {
	rounded := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	return printer.Sprintf("%.2f", rounded)
}

// ImageURL resolves a product image path against the backend base URL.
func ImageURL(baseURL, path string) string {
	if path == "" {
		return "/placeholder.svg"
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "images/products/") {
		path = "images/products/" + path
	}
	return strings.TrimRight(baseURL, "/") + "/" + path
}
