package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/estate/pkg/domain"
	"github.com/naveenspark/estate/pkg/storage"
)

// Login exchanges credentials for a user and token pair. Tokens are not stored here.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/login/", creds, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account and returns it with a token pair.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/register/", reg, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// Logout blacklists the stored refresh token on the server.
func (c *Client) Logout(ctx context.Context) error {
	refresh, _, err := storage.Lookup(ctx, c.store, storage.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("client.Logout: read refresh token: %w", err)
	}
	if err := c.post(ctx, "/auth/logout/", map[string]string{"refresh_token": refresh}, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// GetUserProfile returns the authenticated user's profile.
func (c *Client) GetUserProfile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/profile/", &u); err != nil {
		return nil, fmt.Errorf("client.GetUserProfile: %w", err)
	}
	return &u, nil
}

// UpdateUserProfile patches the authenticated user's profile.
func (c *Client) UpdateUserProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.patch(ctx, "/auth/profile/", upd, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateUserProfile: %w", err)
	}
	return &u, nil
}

// ChangePassword changes the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	if err := c.post(ctx, "/auth/change-password/", change, nil); err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	return nil
}

// GetRoles lists the RBAC roles.
func (c *Client) GetRoles(ctx context.Context) ([]domain.Role, error) {
	var page domain.Page[domain.Role]
	if err := c.get(ctx, "/auth/roles/", &page); err != nil {
		return nil, fmt.Errorf("client.GetRoles: %w", err)
	}
	return page.Results, nil
}

// UpdateNotificationPreferences sets the user's notification toggles.
func (c *Client) UpdateNotificationPreferences(ctx context.Context, prefs domain.NotificationPreferences) (*domain.NotificationPreferences, error) {
	var out domain.NotificationPreferences
	if err := c.patch(ctx, "/auth/notification-preferences/", prefs, &out); err != nil {
		return nil, fmt.Errorf("client.UpdateNotificationPreferences: %w", err)
	}
	return &out, nil
}

// ToggleMFA flips multi-factor authentication for the user.
func (c *Client) ToggleMFA(ctx context.Context) (bool, error) {
	var out struct {
		MFAEnabled bool `json:"mfa_enabled"`
	}
	if err := c.post(ctx, "/auth/toggle-mfa/", nil, &out); err != nil {
		return false, fmt.Errorf("client.ToggleMFA: %w", err)
	}
	return out.MFAEnabled, nil
}
