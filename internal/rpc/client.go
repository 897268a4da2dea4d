package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultCallTimeout = 5 * time.Second

// Client issues internal calls to one backend service. It reconstructs the
// protocol error envelope into *Error and treats an unreachable or
// non-responding peer as Unavailable after a bounded wait.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the service at baseURL. timeout bounds every
// call; zero applies defaultCallTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Call performs an internal request and decodes the response body into out
// (skipped when out is nil). The caller identity travels out-of-band in the
// request headers. GET calls are retried once on Unavailable; mutating calls
// never retry.
func (c *Client) Call(ctx context.Context, method, path string, id Identity, in, out any) error {
	err := c.do(ctx, method, path, id, in, out)
	if err != nil && method == http.MethodGet && CodeOf(err) == CodeUnavailable {
		err = c.do(ctx, method, path, id, in, out)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, id Identity, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("rpc: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("rpc: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	id.SetHeaders(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Code: CodeUnavailable, Message: unavailableMessage(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Code: CodeInternal, Message: "malformed response from peer"}
	}
	return nil
}

// decodeError rebuilds the protocol error from the envelope. A peer that
// answers without an envelope still yields a typed error via the status code.
func decodeError(resp *http.Response) *Error {
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Code != "" {
		return &Error{Code: codeFromString(envelope.Code), Message: envelope.Message}
	}

	code := CodeInternal
	switch resp.StatusCode {
	case http.StatusBadRequest:
		code = CodeInvalidArgument
	case http.StatusNotFound:
		code = CodeNotFound
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		code = CodeUnavailable
	}
	return &Error{Code: code, Message: http.StatusText(resp.StatusCode)}
}

func unavailableMessage(err error) string {
	if ue, ok := err.(*url.Error); ok && ue.Timeout() {
		return "peer did not respond in time"
	}
	return "peer unreachable"
}
