package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maison/storefront/internal/domain/session"
)

// Every cart mutation returns the server's authoritative cart so the
// session store can replace its slice wholesale instead of splicing
// locally. That keeps the client aligned with server-side stock and
// validation rules.

// Cart fetches the current cart
func (c *Client) Cart(ctx context.Context) ([]session.CartLine, error) {
	lines := []session.CartLine{}
	if err := c.get(ctx, "/cart", &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// AddToCart creates or increments a line for the product
func (c *Client) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) ([]session.CartLine, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	lines := []session.CartLine{}
	if err := c.post(ctx, "/cart", body, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateCartLine sets the quantity of an existing line
func (c *Client) UpdateCartLine(ctx context.Context, lineID uuid.UUID, quantity int) ([]session.CartLine, error) {
	body := map[string]any{"quantity": quantity}
	lines := []session.CartLine{}
	if err := c.put(ctx, fmt.Sprintf("/cart/%s", lineID), body, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveCartLine deletes a line
func (c *Client) RemoveCartLine(ctx context.Context, lineID uuid.UUID) ([]session.CartLine, error) {
	lines := []session.CartLine{}
	if err := c.delete(ctx, fmt.Sprintf("/cart/%s", lineID), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// ClearCart empties the cart after an order is created
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart", nil)
}
