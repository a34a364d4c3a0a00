package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maison/storefront/internal/domain/order"
)

// CreateOrderRequest carries the shipping address collected by checkout
// plus the payment confirmation id returned by the payment collaborator.
type CreateOrderRequest struct {
	Shipping  order.ShippingDetails `json:"shipping"`
	PaymentID string                `json:"paymentId"`
}

// PaymentIntent is the client secret the payment collaborator needs to
// confirm a payment for the current cart.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}

// MyOrders fetches the signed-in user's order history
func (c *Client) MyOrders(ctx context.Context) ([]order.Order, error) {
	orders := []order.Order{}
	if err := c.get(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches a single order owned by the signed-in user
func (c *Client) Order(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var ord order.Order
	if err := c.get(ctx, fmt.Sprintf("/orders/%s", id), &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// CreatePaymentIntent asks the backend for a client secret covering the
// current cart total
func (c *Client) CreatePaymentIntent(ctx context.Context) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := c.post(ctx, "/orders/payment-intent", nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreateOrder persists the order after the payment was captured. Failure
// here does not undo the capture; callers surface it explicitly.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	var ord order.Order
	if err := c.post(ctx, "/orders", req, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// AdminOrders fetches every order (admin only)
func (c *Client) AdminOrders(ctx context.Context) ([]order.Order, error) {
	orders := []order.Order{}
	if err := c.get(ctx, "/admin/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to a new status (admin only)
func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error) {
	body := map[string]any{"status": status}
	var ord order.Order
	if err := c.patch(ctx, fmt.Sprintf("/admin/orders/%s/status", id), body, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// NotifyOrder asks the backend to send the customer a status notification
// (admin only)
func (c *Client) NotifyOrder(ctx context.Context, id uuid.UUID) error {
	return c.post(ctx, fmt.Sprintf("/admin/orders/%s/notify", id), nil, nil)
}
