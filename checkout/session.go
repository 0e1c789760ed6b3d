package checkout

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/InfinitechAdCorp/izakayaadmin/delivery"
	"github.com/InfinitechAdCorp/izakayaadmin/errs"
	"github.com/InfinitechAdCorp/izakayaadmin/models"
	"github.com/InfinitechAdCorp/izakayaadmin/pricing"
)

// Update is a partial form edit. Nil fields are left unchanged.
type Update struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	ZipCode       *string `json:"zipCode"`
	PaymentMethod *string `json:"paymentMethod"`
	Notes         *string `json:"notes"`
}

// View is what the checkout page renders.
type View struct {
	SessionID          string               `json:"session_id"`
	Contact            models.ContactInfo   `json:"contact"`
	PaymentMethod      models.PaymentMethod `json:"payment_method"`
	Notes              string               `json:"notes"`
	ReceiptFile        string               `json:"receipt_file"`
	ReceiptRecommended bool                 `json:"receipt_recommended"`
	State              State                `json:"state"`
	DeliveryFee        float64              `json:"delivery_fee"`
	CalculatingFee     bool                 `json:"calculating_fee"`
	LastOrderNumber    string               `json:"last_order_number,omitempty"`
	LastError          string               `json:"last_error,omitempty"`
	Notices            []string             `json:"notices,omitempty"`
}

// Session is one checkout form. It is safe for concurrent use.
type Session struct {
	id      string
	tracker *delivery.Tracker

	mu              sync.Mutex
	contact         models.ContactInfo
	payment         models.PaymentMethod
	notes           string
	receipt         string
	state           State
	lastOrderNumber string
	lastError       string
	notices         []string
	lastSeen        time.Time
}

// NewSession starts an idle form paying cash, with its own fee tracker.
func NewSession(id string, resolver *delivery.Resolver, debounce time.Duration) *Session {
	s := &Session{
		id:       id,
		payment:  models.PaymentCash,
		state:    StateIdle,
		lastSeen: time.Now(),
	}
	s.tracker = delivery.NewTracker(resolver, debounce, s.feeUpdated)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Tracker() *delivery.Tracker { return s.tracker }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Contact() models.ContactInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}

// Apply merges a form edit. A changed city restarts fee resolution.
func (s *Session) Apply(u Update, token string) error {
	var method models.PaymentMethod
	if u.PaymentMethod != nil {
		m, ok := models.ParsePaymentMethod(*u.PaymentMethod)
		if !ok {
			return errs.NewValidation("Unsupported payment method.", "paymentMethod")
		}
		method = m
	}

	s.mu.Lock()
	if s.state == StateSucceeded {
		s.mu.Unlock()
		return errs.ErrAlreadySubmitted
	}
	s.touchLocked()
	set(&s.contact.Name, u.Name)
	set(&s.contact.Email, u.Email)
	set(&s.contact.Phone, u.Phone)
	set(&s.contact.Address, u.Address)
	set(&s.contact.ZipCode, u.ZipCode)
	set(&s.notes, u.Notes)
	if method != "" {
		s.payment = method
	}
	cityChanged := u.City != nil && *u.City != s.contact.City
	set(&s.contact.City, u.City)
	city := s.contact.City
	s.mu.Unlock()

	if cityChanged {
		s.tracker.Input(city, token)
	}
	return nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Prefill copies the non-empty profile fields into the form and starts fee
// resolution for the profile's city.
func (s *Session) Prefill(p models.UserProfile, token string) {
	s.mu.Lock()
	for _, f := range []struct {
		dst *string
		v   string
	}{
		{&s.contact.Name, p.Name},
		{&s.contact.Email, p.Email},
		{&s.contact.Phone, p.Phone},
		{&s.contact.Address, p.Address},
		{&s.contact.City, p.City},
		{&s.contact.ZipCode, p.ZipCode},
	} {
		if strings.TrimSpace(f.v) != "" {
			*f.dst = f.v
		}
	}
	city := s.contact.City
	s.touchLocked()
	s.mu.Unlock()

	if city != "" {
		s.tracker.Input(city, token)
	}
}

// SetReceipt records the name of an attached payment receipt.
func (s *Session) SetReceipt(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipt = filename
	s.touchLocked()
}

func (s *Session) ClearReceipt() {
	s.SetReceipt("")
}

// ReceiptRecommended reports a non-cash method without an attached receipt.
// It is a hint for the form only; submission does not require a receipt.
func (s *Session) ReceiptRecommended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment.RequiresReceipt() && s.receipt == ""
}

// View snapshots the form and drains pending notices.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		SessionID:          s.id,
		Contact:            s.contact,
		PaymentMethod:      s.payment,
		Notes:              s.notes,
		ReceiptFile:        s.receipt,
		ReceiptRecommended: s.payment.RequiresReceipt() && s.receipt == "",
		State:              s.state,
		DeliveryFee:        s.tracker.Fee(),
		CalculatingFee:     s.tracker.Calculating(),
		LastOrderNumber:    s.lastOrderNumber,
		LastError:          s.lastError,
		Notices:            s.notices,
	}
	s.notices = nil
	return v
}

func (s *Session) feeUpdated(city string, fee float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, fmt.Sprintf("Delivery fee for %s: ₱%s", city, pricing.FormatPrice(fee)))
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touchLocked() {
	s.lastSeen = time.Now()
}

// submission is the form content captured when a submission starts.
type submission struct {
	contact models.ContactInfo
	payment models.PaymentMethod
	notes   string
	receipt string
}

// begin checks the form and moves it to processing.
func (s *Session) begin(token string) (submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if missing := s.contact.MissingRequired(); len(missing) > 0 {
		return submission{}, errs.NewValidation(errs.MsgMissingFields, missing...)
	}
	if strings.TrimSpace(token) == "" {
		return submission{}, errs.NewAuthRequired()
	}

	switch s.state {
	case StateProcessing:
		return submission{}, errs.ErrSubmissionInProgress
	case StateSucceeded:
		return submission{}, errs.ErrAlreadySubmitted
	case StateFailed:
		next, err := transition(s.state, StateIdle)
		if err != nil {
			return submission{}, err
		}
		s.state = next
	}
	next, err := transition(s.state, StateProcessing)
	if err != nil {
		return submission{}, err
	}
	s.state = next
	s.lastError = ""

	return submission{
		contact: s.contact,
		payment: s.payment,
		notes:   s.notes,
		receipt: s.receipt,
	}, nil
}

func (s *Session) finish(orderNumber string, failure error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	to := StateSucceeded
	if failure != nil {
		to = StateFailed
	}
	next, err := transition(s.state, to)
	if err != nil {
		return err
	}
	s.state = next
	if failure != nil {
		s.lastError = errs.UserMessage(failure, errs.MsgOrderFailed)
		return nil
	}
	s.lastOrderNumber = orderNumber
	return nil
}
