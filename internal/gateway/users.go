package gateway

import (
	"context"
	"net/url"

	"github.com/aperezolmos/orderly/internal/domain/auth"
)

// UserInfo is the authenticated caller as reported by the backend.
type UserInfo struct {
	Username    string   `json:"username"`
	FullName    string   `json:"fullName,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions"`
}

// PermissionSet converts the raw permission codes into an auth.Permissions.
func (u *UserInfo) PermissionSet() auth.Permissions {
	return auth.ParsePermissions(u.Permissions)
}

// Me returns the authenticated caller and their permission codes. The
// dashboard blocks all fetching until this call resolves.
func (c *Client) Me(ctx context.Context) (*UserInfo, error) {
	var out UserInfo
	if err := c.get(ctx, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UsernameExists probes whether a username is already taken. Used by forms
// for debounced uniqueness validation.
func (c *Client) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := url.Values{"username": []string{username}}
	var exists bool
	if err := c.get(ctx, "/users/check-username", query, &exists); err != nil {
		return false, err
	}
	return exists, nil
}
