package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ItemID is a product identifier. The catalog hands out both numeric and
// string ids, so it decodes from either and always encodes as a string.
type ItemID string

func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

func (id ItemID) String() string { return string(id) }

// Price is a unit price. Decoding never fails: anything that is not a number
// or a numeric string becomes 0.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		*p = 0
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*p = Price(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			f = 0
		}
		*p = Price(f)
	default:
		*p = 0
	}
	return nil
}

// Value returns the price as a float, with NaN and infinities read as 0.
func (p Price) Value() float64 {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Flag is a display boolean that tolerates truthy encodings (1, "yes", "true").
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		*f = false
		return nil
	}
	switch v := raw.(type) {
	case bool:
		*f = Flag(v)
	case float64:
		*f = v != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		*f = s != "" && s != "0" && s != "false" && s != "no"
	default:
		*f = false
	}
	return nil
}

// CartLineItem is one product-and-quantity entry. Display fields and price are
// snapshotted from the catalog when the item is first added.
type CartLineItem struct {
	ID           ItemID `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	Price        Price  `json:"price"`
	Quantity     int    `json:"quantity"`
	Image        string `json:"image,omitempty"`
	IsSpicy      Flag   `json:"isSpicy"`
	IsVegetarian Flag   `json:"isVegetarian"`
}

// CartState is the persisted form of a cart.
type CartState struct {
	Items []CartLineItem `json:"items"`
}

// CartRecord stores one serialized CartState per storage key.
type CartRecord struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (CartRecord) TableName() string {
	return "cart_states"
}
