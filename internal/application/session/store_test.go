package session

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maison/storefront/internal/domain/session"
	"github.com/maison/storefront/internal/domain/shared"
	"github.com/maison/storefront/internal/infrastructure/backend"
	"github.com/maison/storefront/internal/infrastructure/token"
)

// fakeAPI implements API in memory and records call counts
type fakeAPI struct {
	user     session.User
	cart     []session.CartLine
	wishlist []session.WishlistLine

	profileErr  error
	cartErr     error
	wishlistErr error
	mutateErr   error
	logoutErr   error

	logoutCalls int
	toggleCalls int
	addCalls    int
	updateCalls int
}

func (f *fakeAPI) Login(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error) {
	return &backend.AuthResponse{AccessToken: "access", RefreshToken: "refresh", User: f.user}, nil
}

func (f *fakeAPI) Register(ctx context.Context, req backend.RegisterRequest) (*backend.AuthResponse, error) {
	return &backend.AuthResponse{AccessToken: "access", RefreshToken: "refresh", User: f.user}, nil
}

func (f *fakeAPI) Logout(ctx context.Context, refreshToken string) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) Profile(ctx context.Context) (*session.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, user session.User) (*session.User, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	f.user.Name = user.Name
	f.user.Phone = user.Phone
	u := f.user
	return &u, nil
}

func (f *fakeAPI) Cart(ctx context.Context) ([]session.CartLine, error) {
	return f.cart, f.cartErr
}

func (f *fakeAPI) Wishlist(ctx context.Context) ([]session.WishlistLine, error) {
	return f.wishlist, f.wishlistErr
}

func (f *fakeAPI) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) ([]session.CartLine, error) {
	f.addCalls++
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	f.cart = append(f.cart, session.CartLine{
		ID:        uuid.New(),
		ProductID: productID,
		UnitPrice: decimal.NewFromInt(100),
		Quantity:  quantity,
	})
	return f.cart, nil
}

func (f *fakeAPI) UpdateCartLine(ctx context.Context, lineID uuid.UUID, quantity int) ([]session.CartLine, error) {
	f.updateCalls++
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	for i := range f.cart {
		if f.cart[i].ID == lineID {
			f.cart[i].Quantity = quantity
		}
	}
	return f.cart, nil
}

func (f *fakeAPI) RemoveCartLine(ctx context.Context, lineID uuid.UUID) ([]session.CartLine, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	out := f.cart[:0]
	for _, line := range f.cart {
		if line.ID != lineID {
			out = append(out, line)
		}
	}
	f.cart = out
	return f.cart, nil
}

func (f *fakeAPI) ClearCart(ctx context.Context) error {
	f.cart = nil
	return f.mutateErr
}

func (f *fakeAPI) ToggleWishlist(ctx context.Context, productID uuid.UUID) ([]session.WishlistLine, error) {
	f.toggleCalls++
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	for i, line := range f.wishlist {
		if line.ProductID == productID {
			f.wishlist = append(f.wishlist[:i], f.wishlist[i+1:]...)
			return f.wishlist, nil
		}
	}
	f.wishlist = append(f.wishlist, session.WishlistLine{ID: uuid.New(), ProductID: productID})
	return f.wishlist, nil
}

func newTestStore(t *testing.T, api *fakeAPI) (*Store, *token.Store) {
	t.Helper()
	tokens := token.NewStore(filepath.Join(t.TempDir(), "tokens.json"))
	return NewStore(api, tokens, nil), tokens
}

func signedInStore(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	store, _ := newTestStore(t, api)
	require.NoError(t, store.Login(context.Background(), "a@example.com", "pw"))
	return store
}

// ---------------------------------------------------------------------------
// Lifecycle Tests
// ---------------------------------------------------------------------------

func TestStore_InitializeWithoutTokens(t *testing.T) {
	store, _ := newTestStore(t, &fakeAPI{})
	require.NoError(t, store.Initialize(context.Background()))
	assert.False(t, store.SignedIn())
}

func TestStore_InitializeRestoresSession(t *testing.T) {
	api := &fakeAPI{
		user: session.User{Email: "a@example.com", Role: session.RoleCustomer},
		cart: []session.CartLine{{ID: uuid.New(), Quantity: 2}},
	}
	store, tokens := newTestStore(t, api)
	require.NoError(t, tokens.Save(token.Pair{AccessToken: "opaque", RefreshToken: "r"}))

	require.NoError(t, store.Initialize(context.Background()))
	assert.True(t, store.SignedIn())
	assert.Len(t, store.Cart(), 1)
}

func TestStore_InitializeFetchFailureStartsLoggedOut(t *testing.T) {
	// Any bootstrap fetch failure means the stored token is discarded and
	// the app starts logged out; nothing is fatal
	api := &fakeAPI{profileErr: errors.New("boom")}
	store, tokens := newTestStore(t, api)
	require.NoError(t, tokens.Save(token.Pair{AccessToken: "opaque", RefreshToken: "r"}))

	require.NoError(t, store.Initialize(context.Background()))
	assert.False(t, store.SignedIn())

	pair, err := tokens.Load()
	require.NoError(t, err)
	assert.True(t, pair.IsZero(), "stored tokens should be discarded")
}

func TestStore_LoginActivatesSession(t *testing.T) {
	api := &fakeAPI{user: session.User{Email: "a@example.com"}}
	store, tokens := newTestStore(t, api)

	require.NoError(t, store.Login(context.Background(), "a@example.com", "pw"))
	assert.True(t, store.SignedIn())

	pair, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken)
}

func TestStore_LoginSurvivesFetchFailure(t *testing.T) {
	// Cart/wishlist fetch failures after login are non-fatal: the session
	// activates with empty lists
	api := &fakeAPI{
		user:    session.User{Email: "a@example.com"},
		cartErr: errors.New("cart down"),
	}
	store, _ := newTestStore(t, api)

	require.NoError(t, store.Login(context.Background(), "a@example.com", "pw"))
	assert.True(t, store.SignedIn())
	assert.Empty(t, store.Cart())
	assert.Empty(t, store.Wishlist())
}

func TestStore_LogoutClearsEvenWhenOffline(t *testing.T) {
	api := &fakeAPI{logoutErr: errors.New("network down")}
	store := signedInStore(t, api)

	store.Logout(context.Background())
	assert.False(t, store.SignedIn())
	assert.Equal(t, 1, api.logoutCalls)
}

func TestStore_AuthFailureClearsSession(t *testing.T) {
	api := &fakeAPI{}
	store := signedInStore(t, api)

	api.mutateErr = &backend.APIError{StatusCode: http.StatusUnauthorized, Message: "expired"}
	err := store.AddToCart(context.Background(), uuid.New(), 1)

	assert.ErrorIs(t, err, shared.ErrSessionExpired)
	assert.False(t, store.SignedIn())
}

func TestStore_UpdateProfileReplacesUser(t *testing.T) {
	api := &fakeAPI{user: session.User{Name: "Ada", Email: "a@example.com"}}
	store := signedInStore(t, api)

	edited, _ := store.User()
	edited.Name = "Ada Lovelace"
	edited.Phone = "9876543210"
	require.NoError(t, store.UpdateProfile(context.Background(), edited))

	user, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "9876543210", user.Phone)
}

func TestStore_UpdateProfileRequiresSignIn(t *testing.T) {
	store, _ := newTestStore(t, &fakeAPI{})
	err := store.UpdateProfile(context.Background(), session.User{Name: "x"})
	assert.ErrorIs(t, err, shared.ErrNotSignedIn)
}

// ---------------------------------------------------------------------------
// Cart Tests
// ---------------------------------------------------------------------------

func TestStore_AddToCartReplacesWithServerState(t *testing.T) {
	api := &fakeAPI{}
	store := signedInStore(t, api)

	productID := uuid.New()
	require.NoError(t, store.AddToCart(context.Background(), productID, 2))

	cart := store.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, productID, cart[0].ProductID)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestStore_CartMutationsRequireSignIn(t *testing.T) {
	store, _ := newTestStore(t, &fakeAPI{})

	assert.ErrorIs(t, store.AddToCart(context.Background(), uuid.New(), 1), shared.ErrNotSignedIn)
	assert.ErrorIs(t, store.SetQuantity(context.Background(), uuid.New(), 1), shared.ErrNotSignedIn)
	assert.ErrorIs(t, store.RemoveFromCart(context.Background(), uuid.New()), shared.ErrNotSignedIn)
}

func TestStore_QuantityBelowMinimumRejectedLocally(t *testing.T) {
	api := &fakeAPI{}
	store := signedInStore(t, api)

	err := store.AddToCart(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, shared.ErrQuantityTooLow)

	err = store.SetQuantity(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, shared.ErrQuantityTooLow)

	// Neither rejection reached the backend
	assert.Zero(t, api.addCalls)
	assert.Zero(t, api.updateCalls)
}

func TestStore_DecrementAtMinimumIsRejected(t *testing.T) {
	lineID := uuid.New()
	api := &fakeAPI{cart: []session.CartLine{
		{ID: lineID, ProductID: uuid.New(), Quantity: 1},
	}}
	store := signedInStore(t, api)

	err := store.Decrement(context.Background(), lineID)
	assert.ErrorIs(t, err, shared.ErrQuantityTooLow)
	assert.Zero(t, api.updateCalls, "no request should be sent")

	// The line is untouched, not removed
	cart := store.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestStore_IncrementAndDecrement(t *testing.T) {
	lineID := uuid.New()
	api := &fakeAPI{cart: []session.CartLine{
		{ID: lineID, ProductID: uuid.New(), Quantity: 2},
	}}
	store := signedInStore(t, api)

	require.NoError(t, store.Increment(context.Background(), lineID))
	assert.Equal(t, 3, store.Cart()[0].Quantity)

	require.NoError(t, store.Decrement(context.Background(), lineID))
	assert.Equal(t, 2, store.Cart()[0].Quantity)
}

func TestStore_CartTotalTracksServerState(t *testing.T) {
	api := &fakeAPI{}
	store := signedInStore(t, api)

	require.NoError(t, store.AddToCart(context.Background(), uuid.New(), 2))
	require.NoError(t, store.AddToCart(context.Background(), uuid.New(), 1))

	// fakeAPI prices every line at 100
	assert.True(t, store.CartTotal().Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 3, store.CartCount())
}

func TestStore_ClearCartAlwaysClearsLocally(t *testing.T) {
	api := &fakeAPI{cart: []session.CartLine{{ID: uuid.New(), Quantity: 1}}}
	store := signedInStore(t, api)
	api.mutateErr = errors.New("backend down")

	store.ClearCart(context.Background())
	assert.Empty(t, store.Cart())
}

// ---------------------------------------------------------------------------
// Wishlist Tests
// ---------------------------------------------------------------------------

func TestStore_AddToWishlistTwiceIsIdempotent(t *testing.T) {
	api := &fakeAPI{}
	store := signedInStore(t, api)

	productID := uuid.New()
	require.NoError(t, store.AddToWishlist(context.Background(), productID))
	require.NoError(t, store.AddToWishlist(context.Background(), productID))

	assert.Len(t, store.Wishlist(), 1)
	assert.Equal(t, 1, api.toggleCalls, "second add should not reach the backend")
}

func TestStore_ToggleWishlistFlipsMembership(t *testing.T) {
	api := &fakeAPI{}
	store := signedInStore(t, api)

	productID := uuid.New()
	require.NoError(t, store.ToggleWishlist(context.Background(), productID))
	assert.True(t, store.InWishlist(productID))

	require.NoError(t, store.ToggleWishlist(context.Background(), productID))
	assert.False(t, store.InWishlist(productID))
}

func TestStore_RemoveFromWishlistAbsentIsNoOp(t *testing.T) {
	api := &fakeAPI{}
	store := signedInStore(t, api)

	require.NoError(t, store.RemoveFromWishlist(context.Background(), uuid.New()))
	assert.Zero(t, api.toggleCalls)
}

// ---------------------------------------------------------------------------
// Role Tests
// ---------------------------------------------------------------------------

func TestStore_IsAdmin(t *testing.T) {
	customer := signedInStore(t, &fakeAPI{user: session.User{Role: session.RoleCustomer}})
	assert.False(t, customer.IsAdmin())

	admin := signedInStore(t, &fakeAPI{user: session.User{Role: session.RoleAdmin}})
	assert.True(t, admin.IsAdmin())

	loggedOut, _ := newTestStore(t, &fakeAPI{})
	assert.False(t, loggedOut.IsAdmin())
}
