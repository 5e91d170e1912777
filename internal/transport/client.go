// Package transport is the HTTP boundary the collection store talks
// through. Every failure is normalized into an *APIError carrying an
// HTTP status and a message; status 0 means the request never reached
// the server (DNS, connection refused, timeout, CORS-style blocks).
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// requestTimeout bounds every request; the store layer adds no timeout
// of its own.
const requestTimeout = 30 * time.Second

// APIError is the uniform failure shape surfaced by the client.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Coerce normalizes any error into an *APIError. Errors that already
// carry the {status, message} shape pass through; anything else is
// treated as an unexpected internal failure.
func Coerce(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Status: http.StatusInternalServerError, Message: err.Error()}
}

// Client issues JSON requests against a configured base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a request client with the fixed request timeout.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request; the response body is ignored.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{
				Status:  http.StatusInternalServerError,
				Message: fmt.Sprintf("failed to encode request body: %v", err),
			}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("failed to build request: %v", err),
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := c.transportError(err)
		c.logger.Error("request failed before reaching server",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", apiErr.Message),
		)
		return apiErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: serverMessage(resp.StatusCode, data),
		}
		c.logger.Warn("request rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", apiErr.Status),
		)
		return apiErr
	}

	if out == nil || len(data) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("failed to decode response: %v", err),
		}
	}
	return nil
}

// transportError classifies a failure that produced no HTTP response.
// The base URL goes into the message so a misconfigured endpoint is
// diagnosable from the notification alone.
func (c *Client) transportError(err error) *APIError {
	msg := fmt.Sprintf("cannot reach server at %s", c.baseURL)

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
		msg = fmt.Sprintf("request to %s timed out after %s", c.baseURL, requestTimeout)
	case errors.Is(err, context.Canceled):
		msg = fmt.Sprintf("request to %s was canceled", c.baseURL)
	default:
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			msg = fmt.Sprintf("cannot resolve host for %s: %v", c.baseURL, dnsErr)
		}
	}

	return &APIError{Status: 0, Message: msg}
}

// serverMessage extracts the server-provided message from an error
// response body, falling back to a generic message per status class.
func serverMessage(status int, body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	if status >= 500 {
		return "server error"
	}
	return http.StatusText(status)
}
