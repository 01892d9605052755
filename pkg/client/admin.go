package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/estate/pkg/domain"
)

const adminUsersPath = "/auth/admin/users/"

// ListAdminUsers lists accounts. params may carry search, role and is_active filters.
func (c *Client) ListAdminUsers(ctx context.Context, params url.Values) (*domain.Page[domain.User], error) {
	var page domain.Page[domain.User]
	if err := c.get(ctx, withQuery(adminUsersPath, params), &page); err != nil {
		return nil, fmt.Errorf("client.ListAdminUsers: %w", err)
	}
	return &page, nil
}

// GetAdminUser fetches one account.
func (c *Client) GetAdminUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, idPath(adminUsersPath, id), &u); err != nil {
		return nil, fmt.Errorf("client.GetAdminUser: %w", err)
	}
	return &u, nil
}

// CreateAdminUser creates an account.
func (c *Client) CreateAdminUser(ctx context.Context, in domain.AdminUserInput) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, adminUsersPath+"create/", in, &u); err != nil {
		return nil, fmt.Errorf("client.CreateAdminUser: %w", err)
	}
	return &u, nil
}

// UpdateAdminUser patches an account.
func (c *Client) UpdateAdminUser(ctx context.Context, id int64, in domain.AdminUserInput) (*domain.User, error) {
	var u domain.User
	if err := c.patch(ctx, idPath(adminUsersPath, id), in, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateAdminUser: %w", err)
	}
	return &u, nil
}

// DeleteAdminUser deletes an account.
func (c *Client) DeleteAdminUser(ctx context.Context, id int64) error {
	if err := c.delete(ctx, idPath(adminUsersPath, id)); err != nil {
		return fmt.Errorf("client.DeleteAdminUser: %w", err)
	}
	return nil
}

// ToggleSuperadmin flips the superadmin flag of an account.
func (c *Client) ToggleSuperadmin(ctx context.Context, id int64) (*domain.User, error) {
	var out struct {
		User    *domain.User `json:"user"`
		Message string       `json:"message"`
	}
	if err := c.post(ctx, fmt.Sprintf("%s%d/toggle-superadmin/", adminUsersPath, id), nil, &out); err != nil {
		return nil, fmt.Errorf("client.ToggleSuperadmin: %w", err)
	}
	return out.User, nil
}

// GetAdminUserStats returns account counts.
func (c *Client) GetAdminUserStats(ctx context.Context) (*domain.AdminUserStats, error) {
	var stats domain.AdminUserStats
	if err := c.get(ctx, adminUsersPath+"stats/", &stats); err != nil {
		return nil, fmt.Errorf("client.GetAdminUserStats: %w", err)
	}
	return &stats, nil
}
