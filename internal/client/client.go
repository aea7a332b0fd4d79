package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/astba/console/internal/session"
)

const defaultTimeout = 20 * time.Second

// APIError is a non-2xx response from the ASTBA backend. The message body is
// carried verbatim; rendering it is the caller's concern.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, msg)
}

// IsAuthError reports whether err is an authentication failure that survived
// the silent refresh flow, i.e. the caller must log in again.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// AuthPayload is the body of a successful login or refresh exchange.
type AuthPayload struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType,omitempty"`
	User        *UserPayload `json:"user,omitempty"`
}

// UserPayload carries the identity fields a login/refresh response may
// include. Any subset may be absent; absent fields must not clobber stored
// values when the payload is applied.
type UserPayload struct {
	ID        *int64 `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ApplyFunc persists an auth payload into the session store. The auth service
// supplies it so all session writes stay behind a single owner.
type ApplyFunc func(AuthPayload) error

// Config holds client construction options.
type Config struct {
	// BaseURL is the API base endpoint, e.g. http://localhost:8080/api
	BaseURL string

	// Timeout bounds each request. Zero means the default of 20s.
	Timeout time.Duration
}

// Client issues authenticated JSON requests to the ASTBA backend. The bearer
// token is read fresh from the session store on every request, and a 401 is
// transparently retried once after a silent token refresh.
type Client struct {
	baseURL string

	// main carries bearer + one-shot refresh; refresh carries only the
	// refresh cookie so the exchange never depends on a stale access token.
	main    *http.Client
	refresh *http.Client
}

// New creates a configured client. apply is invoked with the payload of every
// successful silent refresh.
func New(cfg Config, store *session.Store, apply ApplyFunc) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	// Both paths persist the astba_refresh cookie through the session store,
	// so a login in one process keeps the refresh exchange working in the
	// next.
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		refresh: &http.Client{
			Timeout: timeout,
			Transport: &cookieTransport{
				store: store,
				next:  &loggingTransport{next: http.DefaultTransport},
			},
		},
	}

	bearer := &bearerTransport{
		store: store,
		next: &cookieTransport{
			store: store,
			next:  &loggingTransport{next: http.DefaultTransport},
		},
	}
	c.main = &http.Client{
		Timeout: timeout,
		Transport: &refreshTransport{
			next:    bearer,
			store:   store,
			apply:   apply,
			refresh: c.refreshExchange,
		},
	}

	return c, nil
}

// Login exchanges credentials for a session. The caller owns persisting the
// payload; a rejection leaves the session store untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	var payload AuthPayload
	body := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/auth/login", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Logout notifies the server that the session should be invalidated.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/auth/logout", nil, nil)
}

// RefreshSession exchanges the refresh cookie for a new access token. Used
// for explicit/proactive refresh; the interceptor path shares the same
// exchange internally.
func (c *Client) RefreshSession(ctx context.Context) (*AuthPayload, error) {
	return c.refreshExchange(ctx)
}

// refreshExchange posts to /auth/refresh through the cookie-only client. A
// response without an access token counts as a failure.
func (c *Client) refreshExchange(ctx context.Context) (*AuthPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.refresh.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var payload AuthPayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, errors.New("refresh response missing access token")
	}
	return &payload, nil
}

const maxResponseBytes = 1 << 20

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	p := path
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return c.doJSON(ctx, http.MethodGet, p, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.main.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse api response: %w", err)
	}
	return nil
}
