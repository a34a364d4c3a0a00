package backend

import (
	"context"

	"github.com/google/uuid"

	"github.com/maison/storefront/internal/domain/session"
)

// Wishlist fetches the current wishlist
func (c *Client) Wishlist(ctx context.Context) ([]session.WishlistLine, error) {
	lines := []session.WishlistLine{}
	if err := c.get(ctx, "/wishlist", &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// ToggleWishlist adds the product when absent and removes it when present.
// The server enforces at most one line per product; the response is the
// full wishlist after the toggle.
func (c *Client) ToggleWishlist(ctx context.Context, productID uuid.UUID) ([]session.WishlistLine, error) {
	body := map[string]any{"productId": productID}
	lines := []session.WishlistLine{}
	if err := c.post(ctx, "/wishlist/toggle", body, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
