package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the access level reported by the backend for a user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsAdmin returns true if the role grants access to the admin screens
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is the authenticated user's profile as returned by the backend.
// The client never derives these fields itself.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"createdAt"`
}

// MinQuantity is the lowest quantity a cart line may hold.
// A decrement that would go below this is rejected before any request is sent.
const MinQuantity = 1

// CartLine is a single entry in the cart. UnitPrice is the price snapshot
// taken by the backend when the line was created.
type CartLine struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price multiplied by quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// WishlistLine is a single entry in the wishlist. The backend enforces at
// most one line per product; the client mirrors that by checking membership
// before toggling.
type WishlistLine struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

// Session is the in-memory representation of the signed-in user plus their
// cart and wishlist. It lives for the lifetime of the application and is
// cleared entirely on logout or on any authentication failure.
type Session struct {
	User     User
	Cart     []CartLine
	Wishlist []WishlistLine
}

// CartTotal returns the sum of line subtotals over the current cart
func (s *Session) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Cart {
		total = total.Add(line.Subtotal())
	}
	return total
}

// CartCount returns the number of units across all cart lines
func (s *Session) CartCount() int {
	count := 0
	for _, line := range s.Cart {
		count += line.Quantity
	}
	return count
}

// InWishlist reports whether the product already has a wishlist line
func (s *Session) InWishlist(productID uuid.UUID) bool {
	for _, line := range s.Wishlist {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}

// FindCartLine returns the cart line for the product, if any
func (s *Session) FindCartLine(productID uuid.UUID) (CartLine, bool) {
	for _, line := range s.Cart {
		if line.ProductID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}
