// Package client calls the agence notification API with a session cookie.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/agence-immo/agence/internal/session"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to one agence server on behalf of one session.
// Requests are never retried.
type Client struct {
	baseURL *url.URL
	cookie  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a client for baseURL sending cookieValue as the session cookie.
func New(baseURL, cookieValue string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url must be http or https: %q", baseURL)
	}
	c := &Client{
		baseURL: u,
		cookie:  cookieValue,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchNotifications lists the session user's notifications.
func (c *Client) FetchNotifications(ctx context.Context, includeRead bool) ([]domain.Notification, error) {
	var resp struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	query := url.Values{"includeRead": {strconv.FormatBool(includeRead)}}
	if err := c.do(ctx, http.MethodGet, "/api/notifications", query, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// UnreadCount returns the server-side unread count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		UnreadCount int `json:"unreadCount"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread-count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}

// MarkRead persists the read state of one notification.
func (c *Client) MarkRead(ctx context.Context, id string) (domain.Notification, error) {
	var resp struct {
		Notification domain.Notification `json:"notification"`
	}
	path := "/api/notifications/" + url.PathEscape(id) + "/read"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return domain.Notification{}, err
	}
	return resp.Notification, nil
}

// MarkAllRead marks every notification of the session user read.
func (c *Client) MarkAllRead(ctx context.Context) (int64, error) {
	var resp struct {
		Updated int64 `json:"updated"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return fmt.Errorf("server reported status %q", resp.Status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: c.cookie})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
