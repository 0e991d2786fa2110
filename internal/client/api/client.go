// Package api is the typed REST client for the event-discovery server.
// Every call takes a context and, for protected endpoints, an explicit
// bearer token; failures decode the server's {message} body into an
// *APIError that unwraps to the shared apperrors sentinels.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one server base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// do performs one JSON round trip. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
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
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, params RegisterParams) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/users", "", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", "", LoginParams{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetProfile(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/profile", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, params UpdateProfileParams) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPut, "/users/profile", token, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CompleteProfile(ctx context.Context, token string, params CompleteProfileParams) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/users/complete-profile", token, params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}
	path := "/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var events []Event
	if err := c.do(ctx, http.MethodGet, path, "", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id uint) (*Event, error) {
	var ev Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d", id), "", nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Client) CreateEvent(ctx context.Context, token string, params CreateEventParams) (*Event, error) {
	var ev Event
	if err := c.do(ctx, http.MethodPost, "/events", token, params, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Client) UpdateEvent(ctx context.Context, token string, id uint, params map[string]any) (*Event, error) {
	var ev Event
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/events/%d", id), token, params, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Client) DeleteEvent(ctx context.Context, token string, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/events/%d", id), token, nil, nil)
}

func (c *Client) MyEvents(ctx context.Context, token string) ([]Event, error) {
	var events []Event
	if err := c.do(ctx, http.MethodGet, "/events/user/events", token, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", "", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, token string, params CreateCategoryParams) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPost, "/categories", token, params, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
