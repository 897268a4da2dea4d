// Package billing is the internal RPC client for the billing service.
package billing

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/rpc"
)

// Client implements ports.BillingDirectory over the internal protocol.
type Client struct {
	rpc *rpc.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{rpc: rpc.NewClient(baseURL, timeout)}
}

// CreateRequest is the internal create-invoice payload.
type CreateRequest struct {
	AccountID string `json:"user_id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
}

// UpdateStatusRequest transitions an invoice.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListResponse wraps an invoice listing.
type ListResponse struct {
	Invoices []domain.Invoice `json:"invoices"`
}

func (c *Client) Create(ctx context.Context, actor rpc.Identity, accountID, status string, amount int64) (*domain.Invoice, error) {
	req := CreateRequest{AccountID: accountID, Status: status, Amount: amount}
	var invoice domain.Invoice
	if err := c.rpc.Call(ctx, http.MethodPost, "/v1/invoices", actor, req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *Client) Get(ctx context.Context, actor rpc.Identity, id string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	if err := c.rpc.Call(ctx, http.MethodGet, "/v1/invoices/"+url.PathEscape(id), actor, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *Client) List(ctx context.Context, actor rpc.Identity, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	q := url.Values{}
	if filter.AccountID != "" {
		q.Set("user_id", filter.AccountID)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	path := "/v1/invoices"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp ListResponse
	if err := c.rpc.Call(ctx, http.MethodGet, path, actor, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Invoices, nil
}

func (c *Client) UpdateStatus(ctx context.Context, actor rpc.Identity, id, status string) (*domain.Invoice, error) {
	req := UpdateStatusRequest{Status: status}
	var invoice domain.Invoice
	if err := c.rpc.Call(ctx, http.MethodPut, "/v1/invoices/"+url.PathEscape(id)+"/status", actor, req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *Client) Delete(ctx context.Context, actor rpc.Identity, id string) error {
	return c.rpc.Call(ctx, http.MethodDelete, "/v1/invoices/"+url.PathEscape(id), actor, nil, nil)
}
