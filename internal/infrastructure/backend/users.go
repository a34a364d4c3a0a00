package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maison/storefront/internal/domain/session"
)

// AdminUsers fetches every registered user (admin only)
func (c *Client) AdminUsers(ctx context.Context) ([]session.User, error) {
	users := []session.User{}
	if err := c.get(ctx, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserBlocked blocks or unblocks a user (admin only)
func (c *Client) SetUserBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*session.User, error) {
	body := map[string]any{"blocked": blocked}
	var user session.User
	if err := c.patch(ctx, fmt.Sprintf("/admin/users/%s/blocked", id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserRole changes a user's role (admin only)
func (c *Client) SetUserRole(ctx context.Context, id uuid.UUID, role session.Role) (*session.User, error) {
	body := map[string]any{"role": role}
	var user session.User
	if err := c.patch(ctx, fmt.Sprintf("/admin/users/%s/role", id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
