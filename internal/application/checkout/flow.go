package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maison/storefront/internal/domain/order"
	"github.com/maison/storefront/internal/domain/shared"
	"github.com/maison/storefront/internal/infrastructure/backend"
	"github.com/maison/storefront/internal/infrastructure/postal"
)

// State is the checkout flow's position. Payment is unreachable until the
// shipping form is fully valid and the postal code has round-tripped the
// lookup.
type State string

const (
	StateCollectingAddress State = "collecting_address"
	StatePinLookupPending  State = "pin_lookup_pending"
	StateAddressConfirmed  State = "address_confirmed"
	StatePaymentReady      State = "payment_ready"
	StatePaymentSubmitting State = "payment_submitting"
	StateSuccess           State = "success"
	StateFailed            State = "failed"
)

// defaultDebounce is the quiet period after the last postal-code keystroke
// before the lookup fires
const defaultDebounce = 500 * time.Millisecond

// ShippingForm is validated per-field on every change, not only on submit
type ShippingForm struct {
	Name       string `validate:"required,min=3"`
	Address    string `validate:"required,min=5"`
	PostalCode string `validate:"required,len=6,numeric"`
	State      string `validate:"required"`
	District   string `validate:"required"`
	Phone      string `validate:"required,len=10,numeric"`
}

// PostalLookup resolves a postal code to its region
type PostalLookup interface {
	Lookup(ctx context.Context, pinCode string) (*postal.Region, error)
}

// PaymentConfirmer confirms a payment intent and returns the confirmation id
type PaymentConfirmer interface {
	Confirm(ctx context.Context, clientSecret, paymentMethodID string) (string, error)
}

// OrderAPI is the slice of the backend client checkout depends on
type OrderAPI interface {
	CreatePaymentIntent(ctx context.Context) (*backend.PaymentIntent, error)
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*order.Order, error)
}

// CartClearer empties the cart once the order is confirmed created
type CartClearer interface {
	ClearCart(ctx context.Context)
}

// Option configures a Flow
type Option func(*Flow)

// WithDebounce overrides the postal lookup quiet period (tests use a short one)
func WithDebounce(d time.Duration) Option {
	return func(f *Flow) {
		f.debounce = d
	}
}

// Flow drives one checkout attempt. It is constructed when the checkout
// screen is entered and discarded when the screen exits.
type Flow struct {
	postal   PostalLookup
	payments PaymentConfirmer
	api      OrderAPI
	cart     CartClearer
	validate *validator.Validate
	logger   *zap.Logger
	debounce time.Duration

	mu          sync.Mutex
	state       State
	form        ShippingForm
	fieldErrors map[string]string
	lookupTimer *time.Timer
	lookupSeq   int
	// confirmedPin is the postal code that last round-tripped the lookup.
	// Editing the code invalidates it until the next successful lookup.
	confirmedPin string
	result       *order.Order
	failure      error
}

// NewFlow creates a checkout flow
func NewFlow(postalLookup PostalLookup, payments PaymentConfirmer, api OrderAPI, cart CartClearer, logger *zap.Logger, opts ...Option) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Flow{
		postal:      postalLookup,
		payments:    payments,
		api:         api,
		cart:        cart,
		validate:    validator.New(),
		logger:      logger,
		debounce:    defaultDebounce,
		state:       StateCollectingAddress,
		fieldErrors: make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current flow state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns a copy of the current form values
func (f *Flow) Form() ShippingForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// FieldError returns the validation error for a field, if any
func (f *Flow) FieldError(field string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.fieldErrors[field]
	return msg, ok
}

// Result returns the created order after a successful submission
func (f *Flow) Result() (*order.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return nil, false
	}
	return f.result, true
}

// Failure returns the error that moved the flow to StateFailed
func (f *Flow) Failure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failure
}

// ---------------------------------------------------------------------------
// Field changes
// ---------------------------------------------------------------------------

// SetName updates the name field
func (f *Flow) SetName(v string) {
	f.setField("Name", func() { f.form.Name = v })
}

// SetAddress updates the address field
func (f *Flow) SetAddress(v string) {
	f.setField("Address", func() { f.form.Address = v })
}

// SetPhone updates the phone field
func (f *Flow) SetPhone(v string) {
	f.setField("Phone", func() { f.form.Phone = v })
}

// SetState updates the state field. Auto-filled values stay user-editable.
func (f *Flow) SetState(v string) {
	f.setField("State", func() { f.form.State = v })
}

// SetDistrict updates the district field
func (f *Flow) SetDistrict(v string) {
	f.setField("District", func() { f.form.District = v })
}

// setField applies the change, revalidates that field, and recomputes the
// flow state
func (f *Flow) setField(field string, apply func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	apply()
	f.validateFieldLocked(field)
	f.recomputeLocked()
}

// SetPostalCode updates the postal code and schedules a debounced lookup.
// Each keystroke resets the quiet period; only the value standing after
// the debounce interval is looked up.
func (f *Flow) SetPostalCode(ctx context.Context, v string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.form.PostalCode = v
	f.confirmedPin = ""
	f.validateFieldLocked("PostalCode")
	f.lookupSeq++

	if f.lookupTimer != nil {
		f.lookupTimer.Stop()
		f.lookupTimer = nil
	}

	if _, bad := f.fieldErrors["PostalCode"]; bad {
		// No lookup will run for a malformed code; a cancelled pending
		// lookup must not leave the flow parked on it
		if f.state == StatePinLookupPending {
			f.state = StateCollectingAddress
		}
		f.recomputeLocked()
		return
	}

	seq := f.lookupSeq
	f.state = StatePinLookupPending
	f.lookupTimer = time.AfterFunc(f.debounce, func() {
		f.runLookup(ctx, v, seq)
	})
}

// runLookup performs the postal lookup after the quiet period. Success
// auto-populates state and district; failure sets a field-level error and
// blocks progression.
func (f *Flow) runLookup(ctx context.Context, pin string, seq int) {
	region, err := f.postal.Lookup(ctx, pin)

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.lookupSeq {
		// The code changed while we were in flight; a newer lookup owns
		// the outcome
		return
	}

	if err != nil {
		f.logger.Debug("postal lookup failed", zap.String("pin", pin), zap.Error(err))
		f.fieldErrors["PostalCode"] = "Postal code could not be verified"
		f.state = StateCollectingAddress
		return
	}

	f.form.State = region.State
	f.form.District = region.District
	delete(f.fieldErrors, "State")
	delete(f.fieldErrors, "District")
	f.confirmedPin = pin
	f.state = StateAddressConfirmed
	f.recomputeLocked()
}

// validateFieldLocked revalidates one field and updates its error entry
func (f *Flow) validateFieldLocked(field string) {
	err := f.validate.StructPartial(f.form, field)
	if err == nil {
		delete(f.fieldErrors, field)
		return
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		f.fieldErrors[field] = fieldMessage(verrs[0])
		return
	}
	f.fieldErrors[field] = "Invalid value"
}

// fieldMessage maps a validator failure to the message shown under the field
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "Name must be at least 3 characters"
	case "Address":
		return "Address must be at least 5 characters"
	case "PostalCode":
		return "Postal code must be 6 digits"
	case "Phone":
		return "Phone number must be 10 digits"
	case "State":
		return "State is required"
	case "District":
		return "District is required"
	}
	return "Invalid value"
}

// recomputeLocked settles the state after a field change. The payment
// section unlocks only when every field passes validation simultaneously
// and the postal code is lookup-confirmed.
func (f *Flow) recomputeLocked() {
	switch f.state {
	case StatePaymentSubmitting, StateSuccess, StateFailed, StatePinLookupPending:
		return
	}

	if f.validate.Struct(f.form) == nil && f.confirmedPin == f.form.PostalCode && f.confirmedPin != "" {
		f.state = StatePaymentReady
		return
	}
	if f.confirmedPin != "" && f.confirmedPin == f.form.PostalCode {
		f.state = StateAddressConfirmed
		return
	}
	f.state = StateCollectingAddress
}

// ---------------------------------------------------------------------------
// Payment submission
// ---------------------------------------------------------------------------

// SubmitPayment runs the payment leg: fetch the client secret, confirm the
// payment, then synchronously create the order with the confirmation id.
// The cart is cleared only after the order is confirmed created, never
// before. If order creation fails after the payment succeeded, the flow
// fails with an explicit error — the capture is not rolled back client-side.
func (f *Flow) SubmitPayment(ctx context.Context, paymentMethodID string) (*order.Order, error) {
	f.mu.Lock()
	if f.state != StatePaymentReady {
		f.mu.Unlock()
		return nil, shared.ErrInvalidState
	}
	f.state = StatePaymentSubmitting
	shipping := order.ShippingDetails{
		Name:       f.form.Name,
		Address:    f.form.Address,
		State:      f.form.State,
		District:   f.form.District,
		PostalCode: f.form.PostalCode,
		Phone:      f.form.Phone,
	}
	f.mu.Unlock()

	intent, err := f.api.CreatePaymentIntent(ctx)
	if err != nil {
		return nil, f.fail(err)
	}

	confirmationID, err := f.payments.Confirm(ctx, intent.ClientSecret, paymentMethodID)
	if err != nil {
		return nil, f.fail(err)
	}

	created, err := f.api.CreateOrder(ctx, backend.CreateOrderRequest{
		Shipping:  shipping,
		PaymentID: confirmationID,
	})
	if err != nil {
		// The payment has already been captured; surface that explicitly
		// rather than pretending the charge didn't happen.
		f.logger.Error("order creation failed after payment capture",
			zap.String("payment_id", confirmationID),
			zap.Error(err))
		return nil, f.fail(fmt.Errorf("payment %s was captured but the order could not be created: %w", confirmationID, err))
	}

	f.cart.ClearCart(ctx)

	f.mu.Lock()
	f.state = StateSuccess
	f.result = created
	f.mu.Unlock()

	f.logger.Info("order created",
		zap.String("order_id", created.ID.String()),
		zap.String("payment_id", confirmationID))
	return created, nil
}

// fail moves the flow to StateFailed and records the cause
func (f *Flow) fail(err error) error {
	f.mu.Lock()
	f.state = StateFailed
	f.failure = err
	f.mu.Unlock()
	return err
}

// Close cancels any pending debounced lookup. Called when the checkout
// screen exits.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupTimer != nil {
		f.lookupTimer.Stop()
		f.lookupTimer = nil
	}
	f.lookupSeq++
}
