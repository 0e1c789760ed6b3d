package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/cart"
	"github.com/InfinitechAdCorp/izakayaadmin/delivery"
	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/events"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/InfinitechAdCorp/izakayaadmin/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticFee struct{ fee float64 }

func (s staticFee) DeliveryFee(context.Context, string, string) (float64, error) {
	return s.fee, nil
}

type fakeOrders struct {
	mu       sync.Mutex
	payloads []models.OrderPayload
	tokens   []string
	order    *models.PlacedOrder
	err      error
	release  chan struct{}
	ctxErrs  []error
}

func (f *fakeOrders) CreateOrder(ctx context.Context, token string, payload models.OrderPayload) (*models.PlacedOrder, error) {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.tokens = append(f.tokens, token)
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	f.mu.Lock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()
	return f.order, f.err
}

func (f *fakeOrders) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

type recordingPublisher struct {
	events.NoopPublisher
	mu        sync.Mutex
	published []events.OrderPlacedEvent
	block     chan struct{}
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, e events.OrderPlacedEvent) error {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, e)
	return nil
}

func (p *recordingPublisher) sent() []events.OrderPlacedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderPlacedEvent(nil), p.published...)
}

type recordingFeed struct{ got []interface{} }

func (f *recordingFeed) Broadcast(v interface{}) { f.got = append(f.got, v) }

func str(s string) *string { return &s }

func newSession(fee float64) *Session {
	resolver := delivery.NewResolver(staticFee{fee: fee}, delivery.BaseFee, zap.NewNop())
	return NewSession("sess-1", resolver, time.Hour)
}

func filled(t *testing.T, s *Session) *Session {
	t.Helper()
	require.NoError(t, s.Apply(Update{
		Name:    str("Aiko"),
		Email:   str("aiko@example.com"),
		Phone:   str("09171234567"),
		Address: str("1 Rizal Ave"),
		City:    str("Manila"),
		ZipCode: str("1000"),
	}, "tok"))
	return s
}

func twoItemCart(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.Load(context.Background(), storage.NewMemory(), "cart:sess-1", zap.NewNop())
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, models.Product{ID: "1", Name: "Ramen", Price: 150, IsSpicy: true}, 2))
	require.NoError(t, store.AddItem(ctx, models.Product{ID: "2", Name: "Gyoza", Category: "Sides", Price: 80}, 1))
	return store
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{StateIdle, StateProcessing, true},
		{StateIdle, StateSucceeded, false},
		{StateProcessing, StateSucceeded, true},
		{StateProcessing, StateFailed, true},
		{StateProcessing, StateIdle, false},
		{StateFailed, StateIdle, true},
		{StateFailed, StateSucceeded, false},
		{StateSucceeded, StateIdle, false},
		{StateSucceeded, StateProcessing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, StateSucceeded.Terminal())
	assert.False(t, StateFailed.Terminal())

	_, err := transition(StateSucceeded, StateProcessing)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestSession_ApplyRejectsUnknownPaymentMethod(t *testing.T) {
	s := newSession(59)
	err := s.Apply(Update{PaymentMethod: str("bitcoin")}, "")

	var validation *errs.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, models.PaymentCash, s.View().PaymentMethod)
}

func TestSession_ReceiptIsOnlyAHint(t *testing.T) {
	s := newSession(59)
	assert.False(t, s.ReceiptRecommended())

	require.NoError(t, s.Apply(Update{PaymentMethod: str("GCash")}, ""))
	assert.True(t, s.ReceiptRecommended())

	s.SetReceipt("1700000000_receipt.png")
	assert.False(t, s.ReceiptRecommended())
	assert.Equal(t, "1700000000_receipt.png", s.View().ReceiptFile)

	s.ClearReceipt()
	assert.True(t, s.View().ReceiptRecommended)
}

func TestSession_PrefillKeepsExistingWhenProfileBlank(t *testing.T) {
	s := newSession(75)
	require.NoError(t, s.Apply(Update{Phone: str("0917")}, ""))

	s.Prefill(models.UserProfile{Name: "Aiko", Email: "aiko@example.com", City: "Pasig", ZipCode: "1600"}, "tok")

	c := s.Contact()
	assert.Equal(t, "Aiko", c.Name)
	assert.Equal(t, "0917", c.Phone)
	assert.Equal(t, "1600", c.ZipCode)

	fee, err := s.Tracker().Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 75.0, fee)
}

func TestSession_FeeNoticeOnBackendQuote(t *testing.T) {
	s := filled(t, newSession(1234.5))
	_, err := s.Tracker().Flush(context.Background())
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, 1234.5, v.DeliveryFee)
	assert.Equal(t, []string{"Delivery fee for Manila: ₱1,234.50"}, v.Notices)
	assert.Empty(t, s.View().Notices)
}

func TestSubmit_EmptyCart(t *testing.T) {
	orders := &fakeOrders{}
	o := NewOrchestrator(orders, nil, nil, zap.NewNop())
	store := cart.Load(context.Background(), storage.NewMemory(), "cart:x", zap.NewNop())
	s := filled(t, newSession(59))

	_, err := o.Submit(context.Background(), s, store, "tok")
	assert.ErrorIs(t, err, errs.ErrCartEmpty)
	assert.Equal(t, StateIdle, s.State())
	assert.Zero(t, orders.calls())
}

func TestSubmit_PreconditionsMakeNoCall(t *testing.T) {
	orders := &fakeOrders{}
	o := NewOrchestrator(orders, nil, nil, zap.NewNop())

	s := filled(t, newSession(59))
	require.NoError(t, s.Apply(Update{Address: str("")}, ""))
	_, err := o.Submit(context.Background(), s, twoItemCart(t), "tok")
	var validation *errs.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, []string{"address"}, validation.Fields)
	assert.Equal(t, errs.MsgMissingFields, validation.Message)

	s = filled(t, newSession(59))
	_, err = o.Submit(context.Background(), s, twoItemCart(t), "  ")
	var auth *errs.AuthRequiredError
	require.ErrorAs(t, err, &auth)
	assert.Equal(t, "/login", auth.RedirectTo)

	assert.Equal(t, StateIdle, s.State())
	assert.Zero(t, orders.calls())
}

func TestSubmit_Success(t *testing.T) {
	orders := &fakeOrders{order: &models.PlacedOrder{OrderNumber: "ORD-1"}}
	pub := &recordingPublisher{}
	feed := &recordingFeed{}
	o := NewOrchestrator(orders, pub, feed, zap.NewNop())
	s := filled(t, newSession(65))
	require.NoError(t, s.Apply(Update{PaymentMethod: str("maya"), Notes: str("extra wasabi")}, ""))
	store := twoItemCart(t)

	res, err := o.Submit(context.Background(), s, store, "tok")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", res.OrderNumber)
	assert.Equal(t, OrdersPath, res.RedirectTo)
	assert.Equal(t, StateSucceeded, s.State())
	assert.True(t, store.IsEmpty())
	assert.Equal(t, "ORD-1", s.View().LastOrderNumber)

	require.Equal(t, 1, orders.calls())
	p := orders.payloads[0]
	assert.Equal(t, "tok", orders.tokens[0])
	assert.Equal(t, models.PaymentMaya, p.PaymentMethod)
	assert.Equal(t, 65.0, p.DeliveryFee)
	assert.Equal(t, "Manila", p.DeliveryCity)
	assert.Equal(t, "1000", p.DeliveryZipCode)
	assert.Equal(t, "extra wasabi", p.Notes)
	assert.Equal(t, "", p.ReceiptFile)
	require.Len(t, p.Items, 2)
	assert.Equal(t, models.DefaultCategory, p.Items[0].Category)
	assert.True(t, p.Items[0].IsSpicy)
	assert.Equal(t, "Sides", p.Items[1].Category)

	o.Wait()
	published := pub.sent()
	require.Len(t, published, 1)
	assert.Equal(t, 380.0, published[0].Subtotal)
	assert.Equal(t, 445.0, published[0].Total)
	assert.Equal(t, 3, published[0].ItemCount)
	assert.Len(t, feed.got, 1)

	_, err = o.Submit(context.Background(), s, twoItemCart(t), "tok")
	assert.ErrorIs(t, err, errs.ErrAlreadySubmitted)
}

func TestSubmit_FailureKeepsCartAndAllowsRetry(t *testing.T) {
	orders := &fakeOrders{err: &errs.UpstreamRejectedError{Status: 500, Message: "Too many requests, retry in 30s"}}
	o := NewOrchestrator(orders, nil, nil, zap.NewNop())
	s := filled(t, newSession(59))
	store := twoItemCart(t)

	_, err := o.Submit(context.Background(), s, store, "tok")
	require.Error(t, err)
	assert.Equal(t, StateFailed, s.State())
	assert.Len(t, store.Items(), 2)
	assert.Equal(t, "Too many requests, retry in 30s", s.View().LastError)

	orders.err = nil
	orders.order = &models.PlacedOrder{OrderNumber: "ORD-2"}
	res, err := o.Submit(context.Background(), s, store, "tok")
	require.NoError(t, err)
	assert.Equal(t, "ORD-2", res.OrderNumber)
	assert.Empty(t, s.View().LastError)
}

func TestSubmit_NetworkFailureUsesGenericMessage(t *testing.T) {
	orders := &fakeOrders{err: &errs.UpstreamUnavailableError{Op: "create order", Err: errors.New("connection refused")}}
	o := NewOrchestrator(orders, nil, nil, zap.NewNop())
	s := filled(t, newSession(59))

	_, err := o.Submit(context.Background(), s, twoItemCart(t), "tok")
	var unavailable *errs.UpstreamUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, errs.MsgOrderFailed, s.View().LastError)
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	orders := &fakeOrders{order: &models.PlacedOrder{OrderNumber: "ORD-3"}, release: make(chan struct{})}
	o := NewOrchestrator(orders, nil, nil, zap.NewNop())
	s := filled(t, newSession(59))
	store := twoItemCart(t)

	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(context.Background(), s, store, "tok")
		done <- err
	}()
	require.Eventually(t, func() bool { return orders.calls() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, StateProcessing, s.State())

	_, err := o.Submit(context.Background(), s, store, "tok")
	assert.ErrorIs(t, err, errs.ErrSubmissionInProgress)

	close(orders.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, orders.calls())
}

func TestSubmit_CompletesAfterCallerCancels(t *testing.T) {
	orders := &fakeOrders{order: &models.PlacedOrder{OrderNumber: "ORD-4"}, release: make(chan struct{})}
	o := NewOrchestrator(orders, nil, nil, zap.NewNop())
	s := filled(t, newSession(59))
	store := twoItemCart(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(ctx, s, store, "tok")
		done <- err
	}()
	require.Eventually(t, func() bool { return orders.calls() == 1 }, time.Second, time.Millisecond)

	cancel()
	close(orders.release)

	require.NoError(t, <-done)
	assert.NoError(t, orders.ctxErrs[0])
	assert.Equal(t, StateSucceeded, s.State())
	assert.True(t, store.IsEmpty())
	assert.Equal(t, "ORD-4", s.View().LastOrderNumber)
}

func TestSubmit_SlowPublisherDoesNotHoldResponse(t *testing.T) {
	orders := &fakeOrders{order: &models.PlacedOrder{OrderNumber: "ORD-5"}}
	pub := &recordingPublisher{block: make(chan struct{})}
	feed := &recordingFeed{}
	o := NewOrchestrator(orders, pub, feed, zap.NewNop())
	s := filled(t, newSession(59))

	ctx, cancel := context.WithCancel(context.Background())
	res, err := o.Submit(ctx, s, twoItemCart(t), "tok")
	require.NoError(t, err)
	assert.Equal(t, "ORD-5", res.OrderNumber)
	assert.Len(t, feed.got, 1)
	assert.Empty(t, pub.sent())

	cancel()
	close(pub.block)
	require.Eventually(t, func() bool { return len(pub.sent()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "ORD-5", pub.sent()[0].OrderNumber)
	o.Wait()
}

func TestSessions(t *testing.T) {
	resolver := delivery.NewResolver(staticFee{fee: 59}, 0, zap.NewNop())
	r := NewSessions(resolver, time.Hour, time.Minute, zap.NewNop())

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	_, ok := r.Lookup("b")
	assert.False(t, ok)

	r.Get("b")
	assert.Equal(t, 2, r.Len())

	assert.Equal(t, 0, r.Sweep(time.Now()))
	assert.Equal(t, 2, r.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, r.Len())

	c := r.Get("c")
	r.Discard("c")
	assert.NotSame(t, c, r.Get("c"))
}
