// Package client talks to a running widgetry server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lazypower/widgetry/internal/calc"
	"github.com/lazypower/widgetry/internal/gallery"
	"github.com/lazypower/widgetry/internal/player"
)

const (
	DefaultServerURL = "http://127.0.0.1:37780"
	httpTimeout      = 5 * time.Second
)

// Client talks to the widgetry server.
type Client struct {
	http      *http.Client
	serverURL string
}

// New creates a client for serverURL. An empty URL falls back to
// WIDGETRY_URL, then http://127.0.0.1:37780.
func New(serverURL string) *Client {
	if serverURL == "" {
		serverURL = os.Getenv("WIDGETRY_URL")
	}
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		serverURL: strings.TrimRight(serverURL, "/"),
	}
}

// NewWithHTTP creates a client using an existing http.Client.
func NewWithHTTP(serverURL string, hc *http.Client) *Client {
	c := New(serverURL)
	c.http = hc
	return c
}

// URL returns the server base URL.
func (c *Client) URL() string {
	return c.serverURL
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, rd)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// StatusError is returned for 4xx and 5xx responses.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Message)
}

func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

// Healthy checks if the server is reachable.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil) == nil
}

// Session is a calculator session as reported by the server.
type Session struct {
	ID string `json:"id"`
	calc.Snapshot
	Error bool `json:"error"`
}

// NewSession starts a fresh calculator session.
func (c *Client) NewSession(ctx context.Context) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/calc", nil, &s)
	return s, err
}

// Calc fetches a calculator session.
func (c *Client) Calc(ctx context.Context, id string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodGet, "/api/calc/"+url.PathEscape(id), nil, &s)
	return s, err
}

// Press sends tokens to a calculator session.
func (c *Client) Press(ctx context.Context, id string, tokens []calc.Token) (Session, error) {
	raw := make([]string, len(tokens))
	for i, t := range tokens {
		raw[i] = string(t)
	}
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/calc/"+url.PathEscape(id)+"/tokens",
		map[string]any{"tokens": raw}, &s)
	return s, err
}

// ClearHistory empties a session's history.
func (c *Client) ClearHistory(ctx context.Context, id string) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodDelete, "/api/calc/"+url.PathEscape(id)+"/history", nil, &s)
	return s, err
}

// Gallery fetches the gallery view.
func (c *Client) Gallery(ctx context.Context) (gallery.View, error) {
	var v gallery.View
	err := c.do(ctx, http.MethodGet, "/api/gallery", nil, &v)
	return v, err
}

// ToggleFavorite flips the favourite state of src and returns it.
func (c *Client) ToggleFavorite(ctx context.Context, src string) (bool, error) {
	var resp struct {
		Favorite bool `json:"favorite"`
	}
	err := c.do(ctx, http.MethodPost, "/api/gallery/favorites", map[string]string{"src": src}, &resp)
	return resp.Favorite, err
}

// Player fetches the player view.
func (c *Client) Player(ctx context.Context) (player.View, error) {
	var v player.View
	err := c.do(ctx, http.MethodGet, "/api/player", nil, &v)
	return v, err
}

// PlayerAction posts a player action such as "next" or "volume" with an
// optional body.
func (c *Client) PlayerAction(ctx context.Context, action string, body any) (player.View, error) {
	var v player.View
	err := c.do(ctx, http.MethodPost, "/api/player/"+url.PathEscape(action), body, &v)
	return v, err
}
