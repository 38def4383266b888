package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Client handles communication with the Kafka Connect REST API.
//
// A Client is immutable after construction and holds no per-call state, so a
// single value may be shared by any number of goroutines. Every operation
// performs exactly one HTTP exchange; the client never retries on its own.
// Operations that the Connect worker applies asynchronously (pause, resume,
// restart) only confirm that the request was accepted, not that the state
// transition completed; callers poll GetConnectorStatus for that.
type Client struct {
	BaseURL    string
	Username   string
	Password   string
	Version    string
	HTTPClient *http.Client
}

// New creates a new Kafka Connect API client. Basic auth is sent on every
// request when a username or password is configured; with both empty the
// client is unauthenticated.
func New(baseURL, username, password, version string) *Client {
	return &Client{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Username: username,
		Password: password,
		Version:  version,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// validatable is implemented by response models that require fields beyond
// what encoding/json enforces. A failed validation classifies as malformed.
type validatable interface {
	validate() error
}

// doRequest performs an HTTP request with authentication and logging.
// Transport-level failures, including context cancellation, come back as an
// *APIError of kind transport; on cancellation the server may or may not
// have already applied the change.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.Username != "" || c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("terraform-provider-kafkaconnect/%s", c.Version))

	tflog.Debug(ctx, "Making Connect API request", map[string]any{
		"method": method,
		"url":    url,
	})

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: ErrTransport, Message: "request failed", Err: err}
	}

	tflog.Debug(ctx, "Received Connect API response", map[string]any{
		"status_code": resp.StatusCode,
	})

	return resp, nil
}

// handleResponse classifies the HTTP response and strictly decodes a 2xx
// body into target. A body that does not decode into the expected shape, or
// that decodes but fails the model's validation, classifies as malformed;
// the caller never receives a partially populated default value as a
// success.
func (c *Client) handleResponse(ctx context.Context, resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: ErrTransport, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode >= 400 {
		apiErr := classifyResponse(resp.StatusCode, body)
		tflog.Error(ctx, "Connect API error response", map[string]any{
			"status_code": resp.StatusCode,
			"kind":        string(apiErr.Kind),
		})
		return apiErr
	}

	if target == nil {
		return nil
	}

	if len(body) == 0 {
		return &APIError{Kind: ErrMalformed, Message: "empty response body"}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &APIError{
			Kind:    ErrMalformed,
			Message: fmt.Sprintf("failed to unmarshal response: %v", err),
			Err:     err,
		}
	}
	if v, ok := target.(validatable); ok {
		if err := v.validate(); err != nil {
			return &APIError{
				Kind:    ErrMalformed,
				Message: fmt.Sprintf("unexpected response shape: %v", err),
				Err:     err,
			}
		}
	}

	return nil
}
