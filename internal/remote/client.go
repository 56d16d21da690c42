// ABOUTME: JSON-over-HTTP client for the sync backend.
// ABOUTME: Maps transport and status failures onto the remote error taxonomy.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to the sync backend. The zero value is not usable; construct
// with NewClient.
type Client struct {
	BaseURL    string
	Token      string
	DeviceID   string
	HTTPClient *http.Client
}

// NewClient creates a Client with the default request timeout.
func NewClient(baseURL, token, deviceID string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		DeviceID:   deviceID,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// do issues a request and decodes the 2xx response body into out (when out
// is non-nil). Transport failures map to ErrUnreachable, 404 to ErrNotFound,
// and every other non-2xx status to a RejectedError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return fmt.Errorf("remote: base url not configured")
	}

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.DeviceID != "" {
		req.Header.Set("X-Device-ID", c.DeviceID)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return &RejectedError{Status: resp.StatusCode, Message: eb.Error}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
