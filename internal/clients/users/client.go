// Package users is the internal RPC client for the user service. It defines
// the wire shapes of the /v1/users surface; the user service handlers import
// them so both sides of the boundary share one contract.
package users

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/rpc"
)

// Client implements ports.UserDirectory over the internal protocol.
type Client struct {
	rpc *rpc.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{rpc: rpc.NewClient(baseURL, timeout)}
}

// CreateRequest is the internal create-account payload. The caller identity
// travels in headers, never here.
type CreateRequest struct {
	Name            string `json:"name"`
	Lastname        string `json:"lastname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

// UpdateRequest carries optional profile mutations.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Lastname *string `json:"lastname,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// ChangePasswordRequest replaces an account's password.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// Credentials is the hash-bearing account payload returned only by the
// internal credentials lookup. It must never be re-serialized externally.
type Credentials struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"password_hash"`
}

// ListResponse pages accounts.
type ListResponse struct {
	Users []domain.Account `json:"users"`
	Total int64            `json:"total"`
	Page  int64            `json:"page"`
	Limit int64            `json:"limit"`
}

func (c *Client) Create(ctx context.Context, actor rpc.Identity, in ports.CreateAccountInput) (*domain.Account, error) {
	req := CreateRequest{
		Name:            in.Name,
		Lastname:        in.Lastname,
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
		Role:            in.Role,
	}
	var account domain.Account
	if err := c.rpc.Call(ctx, http.MethodPost, "/v1/users", actor, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Get(ctx context.Context, actor rpc.Identity, id string) (*domain.Account, error) {
	var account domain.Account
	if err := c.rpc.Call(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(id), actor, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) GetCredentials(ctx context.Context, email string) (*domain.Account, error) {
	path := "/v1/users/credentials?email=" + url.QueryEscape(email)
	var creds Credentials
	if err := c.rpc.Call(ctx, http.MethodGet, path, rpc.Identity{}, nil, &creds); err != nil {
		return nil, err
	}
	return &domain.Account{
		ID:           creds.ID,
		Name:         creds.Name,
		Lastname:     creds.Lastname,
		Email:        creds.Email,
		Role:         creds.Role,
		PasswordHash: creds.PasswordHash,
	}, nil
}

func (c *Client) List(ctx context.Context, actor rpc.Identity, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	q := url.Values{}
	if filter.Role != "" {
		q.Set("role", filter.Role)
	}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.FormatInt(filter.Page, 10))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.FormatInt(filter.Limit, 10))
	}
	path := "/v1/users"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp ListResponse
	if err := c.rpc.Call(ctx, http.MethodGet, path, actor, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Users, resp.Total, nil
}

func (c *Client) Update(ctx context.Context, actor rpc.Identity, id string, update domain.AccountUpdate) (*domain.Account, error) {
	req := UpdateRequest{
		Name:     update.Name,
		Lastname: update.Lastname,
		Email:    update.Email,
		Role:     update.Role,
	}
	var account domain.Account
	if err := c.rpc.Call(ctx, http.MethodPut, "/v1/users/"+url.PathEscape(id), actor, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Delete(ctx context.Context, actor rpc.Identity, id string) error {
	return c.rpc.Call(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(id), actor, nil, nil)
}

func (c *Client) ChangePassword(ctx context.Context, actor rpc.Identity, id, newPassword string) error {
	req := ChangePasswordRequest{Password: newPassword}
	return c.rpc.Call(ctx, http.MethodPut, "/v1/users/"+url.PathEscape(id)+"/password", actor, req, nil)
}

// RecipientEmail satisfies the billing service's RecipientLookup: it resolves
// an account's notification address.
func (c *Client) RecipientEmail(ctx context.Context, actor rpc.Identity, accountID string) (string, error) {
	account, err := c.Get(ctx, actor, accountID)
	if err != nil {
		return "", err
	}
	return account.Email, nil
}
