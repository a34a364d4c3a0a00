package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maison/storefront/internal/domain/order"
	"github.com/maison/storefront/internal/domain/shared"
	"github.com/maison/storefront/internal/infrastructure/backend"
	"github.com/maison/storefront/internal/infrastructure/postal"
)

const testDebounce = 5 * time.Millisecond

// settle waits for a pending debounced lookup to finish
func settle(t *testing.T, f *Flow) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.State() == StatePinLookupPending {
		if time.Now().After(deadline) {
			t.Fatal("lookup never settled")
		}
		time.Sleep(time.Millisecond)
	}
}

type fakeLookup struct {
	region *postal.Region
	err    error
	calls  int
	last   string
}

func (f *fakeLookup) Lookup(ctx context.Context, pinCode string) (*postal.Region, error) {
	f.calls++
	f.last = pinCode
	if f.err != nil {
		return nil, f.err
	}
	return f.region, nil
}

type fakePayments struct {
	id  string
	err error
}

func (f *fakePayments) Confirm(ctx context.Context, clientSecret, paymentMethodID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

type fakeOrderAPI struct {
	intentErr   error
	createErr   error
	created     *order.Order
	lastPayment string
}

func (f *fakeOrderAPI) CreatePaymentIntent(ctx context.Context) (*backend.PaymentIntent, error) {
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return &backend.PaymentIntent{ClientSecret: "pi_1_secret_x"}, nil
}

func (f *fakeOrderAPI) CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*order.Order, error) {
	f.lastPayment = req.PaymentID
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

type fakeCart struct {
	cleared bool
}

func (f *fakeCart) ClearCart(ctx context.Context) { f.cleared = true }

func newTestFlow(t *testing.T, lookup PostalLookup, payments PaymentConfirmer, api OrderAPI, cart CartClearer) *Flow {
	t.Helper()
	f := NewFlow(lookup, payments, api, cart, nil, WithDebounce(testDebounce))
	t.Cleanup(f.Close)
	return f
}

// fillValidForm drives the flow to StatePaymentReady
func fillValidForm(t *testing.T, f *Flow) {
	t.Helper()
	f.SetName("Ada Lovelace")
	f.SetAddress("1 Analytical Engine Way")
	f.SetPhone("9876543210")
	f.SetPostalCode(context.Background(), "560001")
	settle(t, f)
	require.Equal(t, StatePaymentReady, f.State())
}

func karnataka() *fakeLookup {
	return &fakeLookup{region: &postal.Region{State: "Karnataka", District: "Bangalore"}}
}

// ---------------------------------------------------------------------------
// Field validation Tests
// ---------------------------------------------------------------------------

func TestFlow_FieldValidation(t *testing.T) {
	tests := []struct {
		name    string
		set     func(f *Flow)
		field   string
		wantMsg bool
	}{
		{"short name", func(f *Flow) { f.SetName("Al") }, "Name", true},
		{"valid name", func(f *Flow) { f.SetName("Ada") }, "Name", false},
		{"short address", func(f *Flow) { f.SetAddress("abc") }, "Address", true},
		{"valid address", func(f *Flow) { f.SetAddress("1 Long Street") }, "Address", false},
		{"short phone", func(f *Flow) { f.SetPhone("12345") }, "Phone", true},
		{"alpha phone", func(f *Flow) { f.SetPhone("987654321a") }, "Phone", true},
		{"valid phone", func(f *Flow) { f.SetPhone("9876543210") }, "Phone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFlow(t, karnataka(), &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})
			tt.set(f)
			_, got := f.FieldError(tt.field)
			assert.Equal(t, tt.wantMsg, got)
		})
	}
}

func TestFlow_StartsCollectingAddress(t *testing.T) {
	f := newTestFlow(t, karnataka(), &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})
	assert.Equal(t, StateCollectingAddress, f.State())
}

// ---------------------------------------------------------------------------
// Postal lookup Tests
// ---------------------------------------------------------------------------

func TestFlow_LookupAutoFillsRegion(t *testing.T) {
	lookup := karnataka()
	f := newTestFlow(t, lookup, &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})

	f.SetPostalCode(context.Background(), "560001")
	assert.Equal(t, StatePinLookupPending, f.State())

	settle(t, f)
	assert.Equal(t, StateAddressConfirmed, f.State())

	form := f.Form()
	assert.Equal(t, "Karnataka", form.State)
	assert.Equal(t, "Bangalore", form.District)
}

func TestFlow_LookupDebouncesKeystrokes(t *testing.T) {
	lookup := karnataka()
	f := newTestFlow(t, lookup, &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})

	ctx := context.Background()
	f.SetPostalCode(ctx, "560000")
	f.SetPostalCode(ctx, "560001")
	settle(t, f)

	// Only the value standing after the quiet period was looked up
	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, "560001", lookup.last)
}

func TestFlow_LookupFailureBlocksProgress(t *testing.T) {
	lookup := &fakeLookup{err: shared.ErrPostalCodeLookup}
	f := newTestFlow(t, lookup, &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})

	f.SetName("Ada Lovelace")
	f.SetAddress("1 Analytical Engine Way")
	f.SetPhone("9876543210")
	f.SetPostalCode(context.Background(), "999999")
	settle(t, f)

	assert.Equal(t, StateCollectingAddress, f.State())
	msg, ok := f.FieldError("PostalCode")
	require.True(t, ok)
	assert.NotEmpty(t, msg)
}

func TestFlow_MalformedPinSkipsLookup(t *testing.T) {
	lookup := karnataka()
	f := newTestFlow(t, lookup, &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})

	f.SetPostalCode(context.Background(), "123")
	time.Sleep(4 * testDebounce)

	assert.Zero(t, lookup.calls)
	_, ok := f.FieldError("PostalCode")
	assert.True(t, ok)
}

func TestFlow_EditingPinToMalformedWhilePending(t *testing.T) {
	lookup := karnataka()
	f := newTestFlow(t, lookup, &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})

	ctx := context.Background()
	f.SetPostalCode(ctx, "560001")
	require.Equal(t, StatePinLookupPending, f.State())

	// Deleting a digit cancels the scheduled lookup; the flow must fall
	// back to collecting, not wait on a lookup that will never run
	f.SetPostalCode(ctx, "56000")
	assert.Equal(t, StateCollectingAddress, f.State())

	time.Sleep(4 * testDebounce)
	assert.Equal(t, StateCollectingAddress, f.State())
	assert.Zero(t, lookup.calls)
	_, ok := f.FieldError("PostalCode")
	assert.True(t, ok)
}

func TestFlow_EditingPinInvalidatesConfirmation(t *testing.T) {
	f := newTestFlow(t, karnataka(), &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})
	fillValidForm(t, f)

	// Changing the code drops the flow out of PaymentReady until the new
	// code round-trips
	f.SetPostalCode(context.Background(), "560002")
	assert.Equal(t, StatePinLookupPending, f.State())

	settle(t, f)
	assert.Equal(t, StatePaymentReady, f.State())
}

// ---------------------------------------------------------------------------
// Payment gating Tests
// ---------------------------------------------------------------------------

func TestFlow_PaymentReadyRequiresEverything(t *testing.T) {
	f := newTestFlow(t, karnataka(), &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})

	// A confirmed address alone is not enough; all fields must pass
	f.SetPostalCode(context.Background(), "560001")
	settle(t, f)
	assert.Equal(t, StateAddressConfirmed, f.State())

	f.SetName("Ada Lovelace")
	f.SetAddress("1 Analytical Engine Way")
	assert.Equal(t, StateAddressConfirmed, f.State())

	f.SetPhone("9876543210")
	assert.Equal(t, StatePaymentReady, f.State())
}

func TestFlow_SubmitBeforeReadyRejected(t *testing.T) {
	f := newTestFlow(t, karnataka(), &fakePayments{}, &fakeOrderAPI{}, &fakeCart{})

	_, err := f.SubmitPayment(context.Background(), "pm_1")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

// ---------------------------------------------------------------------------
// Submission Tests
// ---------------------------------------------------------------------------

func TestFlow_SubmitPaymentSuccess(t *testing.T) {
	created := &order.Order{ID: uuid.New()}
	api := &fakeOrderAPI{created: created}
	cart := &fakeCart{}
	f := newTestFlow(t, karnataka(), &fakePayments{id: "pi_1"}, api, cart)
	fillValidForm(t, f)

	got, err := f.SubmitPayment(context.Background(), "pm_1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, StateSuccess, f.State())
	assert.Equal(t, "pi_1", api.lastPayment)
	assert.True(t, cart.cleared, "cart clears after the order is created")

	result, ok := f.Result()
	require.True(t, ok)
	assert.Equal(t, created.ID, result.ID)
}

func TestFlow_PaymentDeclineFailsFlow(t *testing.T) {
	cart := &fakeCart{}
	f := newTestFlow(t, karnataka(), &fakePayments{err: shared.ErrPaymentDeclined}, &fakeOrderAPI{}, cart)
	fillValidForm(t, f)

	_, err := f.SubmitPayment(context.Background(), "pm_1")
	assert.ErrorIs(t, err, shared.ErrPaymentDeclined)
	assert.Equal(t, StateFailed, f.State())
	assert.False(t, cart.cleared, "cart must survive a failed payment")
}

func TestFlow_OrderCreationFailureAfterCapture(t *testing.T) {
	api := &fakeOrderAPI{createErr: errors.New("backend down")}
	cart := &fakeCart{}
	f := newTestFlow(t, karnataka(), &fakePayments{id: "pi_captured"}, api, cart)
	fillValidForm(t, f)

	_, err := f.SubmitPayment(context.Background(), "pm_1")
	require.Error(t, err)

	// The error names the captured payment rather than hiding the charge
	assert.Contains(t, err.Error(), "pi_captured")
	assert.Contains(t, err.Error(), "captured")
	assert.Equal(t, StateFailed, f.State())
	assert.False(t, cart.cleared, "cart must not clear when the order was not created")
	assert.Error(t, f.Failure())
}

func TestFlow_IntentFailureFailsFlow(t *testing.T) {
	api := &fakeOrderAPI{intentErr: errors.New("no intent")}
	f := newTestFlow(t, karnataka(), &fakePayments{id: "pi_1"}, api, &fakeCart{})
	fillValidForm(t, f)

	_, err := f.SubmitPayment(context.Background(), "pm_1")
	require.Error(t, err)
	assert.Equal(t, StateFailed, f.State())
}

func TestFlow_CloseCancelsPendingLookup(t *testing.T) {
	lookup := karnataka()
	f := NewFlow(lookup, &fakePayments{}, &fakeOrderAPI{}, &fakeCart{}, nil, WithDebounce(50*time.Millisecond))

	f.SetPostalCode(context.Background(), "560001")
	f.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, lookup.calls)
}
