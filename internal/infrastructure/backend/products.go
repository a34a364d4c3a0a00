package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maison/storefront/internal/domain/catalog"
)

// Products fetches the full catalog. Filtering, sorting and pagination all
// happen client-side over this single collection.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	products := []catalog.Product{}
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single catalog entry
func (c *Client) Product(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%s", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct forwards a full-record payload (admin only)
func (c *Client) CreateProduct(ctx context.Context, record catalog.Record) (*catalog.Product, error) {
	var product catalog.Product
	if err := c.post(ctx, "/admin/products", record, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct forwards a full-record payload for an existing product
// (admin only)
func (c *Client) UpdateProduct(ctx context.Context, id uuid.UUID, record catalog.Record) (*catalog.Product, error) {
	var product catalog.Product
	if err := c.put(ctx, fmt.Sprintf("/admin/products/%s", id), record, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product (admin only)
func (c *Client) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return c.delete(ctx, fmt.Sprintf("/admin/products/%s", id), nil)
}
