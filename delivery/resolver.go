// Package delivery resolves the delivery fee for a destination city, falling
// back to a flat base fee whenever the backend cannot answer.
package delivery

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	BaseFee         = 59.0
	DefaultDebounce = 500 * time.Millisecond
	MinCityLength   = 2
)

// FeeSource quotes a fee for a city. upstream.Client implements it.
type FeeSource interface {
	DeliveryFee(ctx context.Context, city, token string) (float64, error)
}

type Result struct {
	Fee         float64 `json:"delivery_fee"`
	FromBackend bool    `json:"from_backend"`
}

type Resolver struct {
	source  FeeSource
	baseFee float64
	logger  *zap.Logger
}

// NewResolver returns a resolver over source. A non-positive baseFee means BaseFee.
func NewResolver(source FeeSource, baseFee float64, logger *zap.Logger) *Resolver {
	if baseFee <= 0 {
		baseFee = BaseFee
	}
	return &Resolver{source: source, baseFee: baseFee, logger: logger}
}

func (r *Resolver) BaseFee() float64 { return r.baseFee }

// Eligible reports whether city is long enough to be worth asking the backend about.
func Eligible(city string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(city)) >= MinCityLength
}

// Resolve never fails: short input and every backend problem yield the base fee.
func (r *Resolver) Resolve(ctx context.Context, city, token string) Result {
	city = strings.TrimSpace(city)
	if !Eligible(city) {
		return Result{Fee: r.baseFee}
	}

	fee, err := r.source.DeliveryFee(ctx, city, token)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("Delivery fee lookup failed, using base fee",
				zap.String("city", city),
				zap.Error(err),
			)
		}
		return Result{Fee: r.baseFee}
	}
	if fee < 0 || math.IsNaN(fee) || math.IsInf(fee, 0) {
		r.logger.Warn("Backend quoted an invalid delivery fee", zap.String("city", city), zap.Float64("fee", fee))
		return Result{Fee: r.baseFee}
	}
	return Result{Fee: fee, FromBackend: true}
}
