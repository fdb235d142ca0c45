// Package client talks to the lending tracker's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jask/lendtrack/internal/domain"
)

var _ domain.Lender = (*Client)(nil)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Messages the API uses for conflicts.
const (
	msgDuplicateFriend = "Friend already exists"
	msgFriendHasItems  = "Friend still has borrowed items"
)

// Is maps API answers onto domain errors so callers can treat both backends alike.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrDuplicateFriend:
		return e.Status == http.StatusConflict && e.Message == msgDuplicateFriend
	case domain.ErrFriendHasItems:
		return e.Status == http.StatusConflict && e.Message == msgFriendHasItems
	}
	return false
}

// Client is an API client. The zero value is not usable; call New.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithToken sends an Authorization bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// New returns a client for baseURL, e.g. http://localhost:8081/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListFriends(ctx context.Context) ([]domain.Friend, error) {
	var out []domain.Friend
	if err := c.do(ctx, http.MethodGet, "/friends", nil, &out); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return out, nil
}

func (c *Client) Friend(ctx context.Context, id int64) (domain.Friend, error) {
	var out domain.Friend
	if err := c.do(ctx, http.MethodGet, "/friends/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return domain.Friend{}, fmt.Errorf("get friend %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) AddFriend(ctx context.Context, name string) (domain.Friend, error) {
	var out domain.Friend
	body := map[string]string{"name": strings.TrimSpace(name)}
	if err := c.do(ctx, http.MethodPost, "/friends", body, &out); err != nil {
		return domain.Friend{}, fmt.Errorf("add friend: %w", err)
	}
	return out, nil
}

func (c *Client) RemoveFriend(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/friends/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("remove friend %d: %w", id, err)
	}
	return nil
}

func (c *Client) ItemsFor(ctx context.Context, friendID int64) ([]domain.Item, error) {
	var out []domain.Item
	if err := c.do(ctx, http.MethodGet, "/friends/"+strconv.FormatInt(friendID, 10)+"/items", nil, &out); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

func (c *Client) Item(ctx context.Context, id int64) (domain.Item, error) {
	var out domain.Item
	if err := c.do(ctx, http.MethodGet, "/items/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return domain.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) Give(ctx context.Context, friendID int64, itemName string) (domain.Item, error) {
	var out domain.Item
	body := struct {
		FriendID int64  `json:"friendId"`
		Name     string `json:"name"`
	}{FriendID: friendID, Name: strings.TrimSpace(itemName)}
	if err := c.do(ctx, http.MethodPost, "/items", body, &out); err != nil {
		return domain.Item{}, fmt.Errorf("give item: %w", err)
	}
	return out, nil
}

func (c *Client) TakeBack(ctx context.Context, itemID int64) error {
	if err := c.do(ctx, http.MethodDelete, "/items/"+strconv.FormatInt(itemID, 10), nil, nil); err != nil {
		return fmt.Errorf("take back item %d: %w", itemID, err)
	}
	return nil
}

// Ping checks the server's health endpoint, which lives beside /api.
func (c *Client) Ping(ctx context.Context) error {
	root := strings.TrimSuffix(c.baseURL, "/api")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/up", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
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

// decodeError keeps the server's {"error": ...} message when the body is JSON.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}

// Message extracts the server's error message from err, if there is one.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
