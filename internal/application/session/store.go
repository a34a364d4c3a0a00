package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maison/storefront/internal/domain/session"
	"github.com/maison/storefront/internal/domain/shared"
	"github.com/maison/storefront/internal/infrastructure/backend"
	"github.com/maison/storefront/internal/infrastructure/token"
)

// API is the slice of the backend client the session store depends on
type API interface {
	Login(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error)
	Register(ctx context.Context, req backend.RegisterRequest) (*backend.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context) (*session.User, error)
	UpdateProfile(ctx context.Context, user session.User) (*session.User, error)
	Cart(ctx context.Context) ([]session.CartLine, error)
	Wishlist(ctx context.Context) ([]session.WishlistLine, error)
	AddToCart(ctx context.Context, productID uuid.UUID, quantity int) ([]session.CartLine, error)
	UpdateCartLine(ctx context.Context, lineID uuid.UUID, quantity int) ([]session.CartLine, error)
	RemoveCartLine(ctx context.Context, lineID uuid.UUID) ([]session.CartLine, error)
	ClearCart(ctx context.Context) error
	ToggleWishlist(ctx context.Context, productID uuid.UUID) ([]session.WishlistLine, error)
}

// Store is the single owner of cart/wishlist truth on the client. Every
// mutating screen writes back through it; no screen keeps a parallel copy.
// Writes are last-writer-wins, which is acceptable because a user drives
// one mutating action at a time.
type Store struct {
	api    API
	tokens *token.Store
	logger *zap.Logger

	mu      sync.RWMutex
	current *session.Session // nil when logged out
}

// NewStore creates the session store
func NewStore(api API, tokens *token.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:    api,
		tokens: tokens,
		logger: logger,
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Initialize restores the session on application start. If a stored token
// exists, profile, cart and wishlist are fetched concurrently; any failure
// means the token is treated as invalid: stored tokens are discarded and
// the session stays empty. Initialize never fails the application — the
// worst outcome is starting logged out.
func (s *Store) Initialize(ctx context.Context) error {
	pair, err := s.tokens.Load()
	if err != nil || pair.IsZero() {
		return nil
	}

	if s.tokens.Expired(time.Now()) {
		s.logger.Info("stored access token expired, starting logged out")
		s.discard()
		return nil
	}

	var (
		user     *session.User
		cart     []session.CartLine
		wishlist []session.WishlistLine
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.api.Profile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cart, err = s.api.Cart(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		wishlist, err = s.api.Wishlist(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("session bootstrap failed, starting logged out", zap.Error(err))
		s.discard()
		return nil
	}

	s.mu.Lock()
	s.current = &session.Session{
		User:     *user,
		Cart:     cart,
		Wishlist: wishlist,
	}
	s.mu.Unlock()

	s.logger.Info("session restored",
		zap.String("user", user.Email),
		zap.Int("cart_lines", len(cart)),
		zap.Int("wishlist_lines", len(wishlist)))
	return nil
}

// Login signs in with credentials and activates the session
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, backend.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.Activate(ctx, resp)
}

// Register creates an account and activates the session
func (s *Store) Register(ctx context.Context, req backend.RegisterRequest) error {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return err
	}
	return s.Activate(ctx, resp)
}

// Activate stores the token pair durably and fetches cart and wishlist
// concurrently. Fetch failures here are non-fatal: the session still
// becomes active with empty cart/wishlist and a logged warning.
func (s *Store) Activate(ctx context.Context, resp *backend.AuthResponse) error {
	pair := token.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.tokens.Save(pair); err != nil {
		return err
	}

	var (
		cart     []session.CartLine
		wishlist []session.WishlistLine
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cart, err = s.api.Cart(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		wishlist, err = s.api.Wishlist(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("cart/wishlist fetch failed after login, starting with empty lists", zap.Error(err))
		cart = nil
		wishlist = nil
	}

	s.mu.Lock()
	s.current = &session.Session{
		User:     resp.User,
		Cart:     cart,
		Wishlist: wishlist,
	}
	s.mu.Unlock()

	s.logger.Info("signed in", zap.String("user", resp.User.Email))
	return nil
}

// Logout clears the in-memory session and durable tokens immediately, then
// best-effort notifies the backend to invalidate the refresh token. The
// notify call's failure is swallowed: it never surfaces and never blocks
// the clear, so logging out while offline still works.
func (s *Store) Logout(ctx context.Context) {
	pair, _ := s.tokens.Load()

	s.discard()
	s.logger.Info("signed out")

	if pair.RefreshToken == "" {
		return
	}
	if err := s.api.Logout(ctx, pair.RefreshToken); err != nil {
		s.logger.Debug("backend logout notify failed", zap.Error(err))
	}
}

// discard drops in-memory state and stored tokens
func (s *Store) discard() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to clear stored tokens", zap.Error(err))
	}
}

// handleErr applies the uniform authentication-failure rule: any request
// rejected for credentials clears the session everywhere, instead of each
// screen handling 401s ad hoc.
func (s *Store) handleErr(err error) error {
	if err == nil {
		return nil
	}
	if backend.IsAuthFailure(err) {
		s.logger.Info("authentication rejected, clearing session")
		s.discard()
		return shared.ErrSessionExpired
	}
	return err
}

// UpdateProfile forwards edited profile fields and replaces the stored
// user with the server's response
func (s *Store) UpdateProfile(ctx context.Context, user session.User) error {
	if !s.SignedIn() {
		return shared.ErrNotSignedIn
	}
	updated, err := s.api.UpdateProfile(ctx, user)
	if err != nil {
		return s.handleErr(err)
	}
	s.mu.Lock()
	if s.current != nil {
		s.current.User = *updated
	}
	s.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// SignedIn reports whether a session is active
func (s *Store) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// User returns the signed-in profile
func (s *Store) User() (session.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return session.User{}, false
	}
	return s.current.User, true
}

// IsAdmin reports whether the signed-in user may reach admin screens
func (s *Store) IsAdmin() bool {
	user, ok := s.User()
	return ok && user.Role.IsAdmin()
}

// Cart returns a copy of the current cart
func (s *Store) Cart() []session.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := make([]session.CartLine, len(s.current.Cart))
	copy(out, s.current.Cart)
	return out
}

// Wishlist returns a copy of the current wishlist
func (s *Store) Wishlist() []session.WishlistLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := make([]session.WishlistLine, len(s.current.Wishlist))
	copy(out, s.current.Wishlist)
	return out
}

// CartTotal returns the sum of unit price times quantity over current lines
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return decimal.Zero
	}
	return s.current.CartTotal()
}

// CartCount returns the number of units in the cart, for the nav badge
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return 0
	}
	return s.current.CartCount()
}

// InWishlist reports whether the product has a wishlist line
func (s *Store) InWishlist(productID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.InWishlist(productID)
}

// ---------------------------------------------------------------------------
// Cart mutations
// ---------------------------------------------------------------------------
//
// Every mutation calls the backend and then replaces the whole slice with
// the server's authoritative response — never a local optimistic splice.

// AddToCart adds quantity units of the product
func (s *Store) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) error {
	if !s.SignedIn() {
		return shared.ErrNotSignedIn
	}
	if quantity < session.MinQuantity {
		return shared.ErrQuantityTooLow
	}

	lines, err := s.api.AddToCart(ctx, productID, quantity)
	if err != nil {
		return s.handleErr(err)
	}
	s.replaceCart(lines)
	return nil
}

// SetQuantity sets an existing line to the given quantity. A quantity
// below the minimum is rejected before any request is sent.
func (s *Store) SetQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	if !s.SignedIn() {
		return shared.ErrNotSignedIn
	}
	if quantity < session.MinQuantity {
		return shared.ErrQuantityTooLow
	}

	lines, err := s.api.UpdateCartLine(ctx, lineID, quantity)
	if err != nil {
		return s.handleErr(err)
	}
	s.replaceCart(lines)
	return nil
}

// Decrement lowers a line's quantity by one. Decrementing a quantity of
// one is a no-op rejection, not a removal.
func (s *Store) Decrement(ctx context.Context, lineID uuid.UUID) error {
	s.mu.RLock()
	var quantity int
	found := false
	if s.current != nil {
		for _, line := range s.current.Cart {
			if line.ID == lineID {
				quantity = line.Quantity
				found = true
				break
			}
		}
	}
	s.mu.RUnlock()

	if !found {
		return shared.ErrNotFound
	}
	return s.SetQuantity(ctx, lineID, quantity-1)
}

// Increment raises a line's quantity by one
func (s *Store) Increment(ctx context.Context, lineID uuid.UUID) error {
	s.mu.RLock()
	var quantity int
	found := false
	if s.current != nil {
		for _, line := range s.current.Cart {
			if line.ID == lineID {
				quantity = line.Quantity
				found = true
				break
			}
		}
	}
	s.mu.RUnlock()

	if !found {
		return shared.ErrNotFound
	}
	return s.SetQuantity(ctx, lineID, quantity+1)
}

// RemoveFromCart deletes a line
func (s *Store) RemoveFromCart(ctx context.Context, lineID uuid.UUID) error {
	if !s.SignedIn() {
		return shared.ErrNotSignedIn
	}

	lines, err := s.api.RemoveCartLine(ctx, lineID)
	if err != nil {
		return s.handleErr(err)
	}
	s.replaceCart(lines)
	return nil
}

// ClearCart empties the cart after an order is created. The local clear
// happens regardless of whether the backend call succeeds; the backend
// clears its copy as part of order creation anyway.
func (s *Store) ClearCart(ctx context.Context) {
	if err := s.api.ClearCart(ctx); err != nil {
		s.logger.Debug("backend cart clear failed", zap.Error(err))
	}
	s.replaceCart(nil)
}

func (s *Store) replaceCart(lines []session.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cart = lines
	}
}

// ---------------------------------------------------------------------------
// Wishlist mutations
// ---------------------------------------------------------------------------

// AddToWishlist ensures the product has a wishlist line. Adding a product
// that is already present is a local no-op, mirroring the server's
// one-line-per-product rule.
func (s *Store) AddToWishlist(ctx context.Context, productID uuid.UUID) error {
	if !s.SignedIn() {
		return shared.ErrNotSignedIn
	}
	if s.InWishlist(productID) {
		return nil
	}
	return s.toggle(ctx, productID)
}

// RemoveFromWishlist ensures the product has no wishlist line
func (s *Store) RemoveFromWishlist(ctx context.Context, productID uuid.UUID) error {
	if !s.SignedIn() {
		return shared.ErrNotSignedIn
	}
	if !s.InWishlist(productID) {
		return nil
	}
	return s.toggle(ctx, productID)
}

// ToggleWishlist flips the product's membership
func (s *Store) ToggleWishlist(ctx context.Context, productID uuid.UUID) error {
	if !s.SignedIn() {
		return shared.ErrNotSignedIn
	}
	return s.toggle(ctx, productID)
}

func (s *Store) toggle(ctx context.Context, productID uuid.UUID) error {
	lines, err := s.api.ToggleWishlist(ctx, productID)
	if err != nil {
		return s.handleErr(err)
	}
	s.mu.Lock()
	if s.current != nil {
		s.current.Wishlist = lines
	}
	s.mu.Unlock()
	return nil
}
