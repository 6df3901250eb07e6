package eventsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/eventify/eventify-desk/internal/domain"
	"github.com/go-resty/resty/v2"
)

// Login exchanges credentials for an access token. The remote API expects
// the email in a form-encoded "username" field.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("email and password are required")
	}
	var out LoginResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"username": email, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		c.setStatus(StatusDisconnected)
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return LoginResult{}, domain.RejectedError{Kind: domain.ErrCredentialsRejected, Reason: reason(resp)}
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (LoginResult, error) {
	if reg.Email == "" || reg.Password == "" || reg.FullName == "" {
		return LoginResult{}, fmt.Errorf("email, password and full name are required")
	}
	if reg.Role == "" {
		reg.Role = domain.RoleAttendee
	}
	if !reg.Role.Valid() {
		return LoginResult{}, domain.RejectedError{Kind: domain.ErrRegistrationRejected, Reason: fmt.Sprintf("invalid role %q", reg.Role)}
	}
	var out LoginResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reg).
		SetResult(&out).
		Post("/auth/register")
	if err != nil {
		c.setStatus(StatusDisconnected)
		return LoginResult{}, fmt.Errorf("register: %w", err)
	}
	c.setStatus(StatusConnected)
	if resp.IsError() {
		return LoginResult{}, domain.RejectedError{Kind: domain.ErrRegistrationRejected, Reason: reason(resp)}
	}
	return out, nil
}

// Me resolves the identity behind the installed token. A 401 maps to
// ErrSessionExpired so callers can reset silently.
func (c *Client) Me(ctx context.Context) (domain.Identity, error) {
	var out domain.Identity
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/auth/me")
	if err != nil {
		c.setStatus(StatusDisconnected)
		return domain.Identity{}, fmt.Errorf("identity lookup: %w", err)
	}
	c.setStatus(StatusConnected)
	if resp.StatusCode() == http.StatusUnauthorized {
		return domain.Identity{}, domain.ErrSessionExpired
	}
	if resp.IsError() {
		return domain.Identity{}, fmt.Errorf("identity lookup %s: %w", resp.Status(), domain.ErrFetchFailed)
	}
	return out, nil
}

func reason(resp *resty.Response) string {
	var e apiError
	if err := json.Unmarshal(resp.Body(), &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	return resp.Status()
}
