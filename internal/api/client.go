// Package api is the HTTP client for the remote dealer REST API. All entity
// data lives behind that API; this package owns transport, authentication,
// and normalizing every failure into a *model.APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/me/dealerdash/pkg/model"
)

// Client talks to the dealer REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tokens     TokenSource
}

// NewClient creates a dealer API client. tokens may be nil for
// unauthenticated use (login, health).
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With("component", "api"),
		tokens:     tokens,
	}
}

// WithTokenSource returns a shallow copy of the client bound to a different
// token source. The UI uses this to bind the per-request session token.
func (c *Client) WithTokenSource(tokens TokenSource) *Client {
	out := *c
	out.tokens = tokens
	return &out
}

// envelope is the dealer API's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do performs a request and returns the raw data payload. Network failures
// and server-reported failures both come back as *model.APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("token source: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	c.logger.Debug("api request", "method", method, "url", u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context cancellation is supersession, not an API failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, model.NewUnavailableError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewUnavailableError(err)
	}

	c.logger.Debug("api response", "status", resp.StatusCode, "bytes", len(respBody))

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &model.APIError{
			Code:    model.ErrInternal,
			Message: fmt.Sprintf("invalid response from dealer API (status %d)", resp.StatusCode),
		}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return nil, errorFromResponse(resp.StatusCode, env.Error)
	}

	return env.Data, nil
}

// errorFromResponse maps an HTTP status plus server message onto an APIError.
func errorFromResponse(status int, msg string) *model.APIError {
	if msg == "" {
		msg = http.StatusText(status)
	}
	code := model.ErrInternal
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = model.ErrUnauthorized
	case status == http.StatusNotFound:
		code = model.ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code = model.ErrValidation
	}
	return &model.APIError{Code: code, Message: msg}
}

// get performs a GET and decodes the data payload into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Health checks the dealer API's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil, nil)
}

// Summary fetches the aggregate analytics block for the dashboard.
func (c *Client) Summary(ctx context.Context) (*model.Summary, error) {
	var s model.Summary
	if err := c.get(ctx, "/analytics/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoginResult is the payload of a successful login. ExpiresAt is absent when
// the backend issues non-expiring tokens.
type LoginResult struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Login authenticates against the dealer API and returns the bearer token
// with the user record.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	data, err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if res.Token == "" {
		return nil, &model.APIError{Code: model.ErrUnauthorized, Message: "login response carried no token"}
	}
	return &res, nil
}
