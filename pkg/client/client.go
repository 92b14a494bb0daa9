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

	"github.com/shardkv/shard/pkg/types"
)

const defaultTimeout = 10 * time.Second

// Errors returned for the shard's documented failure statuses.
var (
	ErrNotFound         = errors.New("key not found")
	ErrInvalidValue     = errors.New("shard rejected value")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Client talks to one shard over HTTP.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client for the shard at baseURL (e.g. "http://localhost:8080").
// A nil hc uses an http.Client with a 10 second timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// Put stores value under key.
func (c *Client) Put(ctx context.Context, key, value string) error {
	body, err := json.Marshal(types.Value{Value: value})
	if err != nil {
		return fmt.Errorf("client put %q: encode: %w", key, err)
	}
	code, _, err := c.do(ctx, http.MethodPut, kvPath(key), body)
	if err != nil {
		return fmt.Errorf("client put %q: %w", key, err)
	}
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return fmt.Errorf("client put %q: %w", key, ErrInvalidValue)
	default:
		return fmt.Errorf("client put %q: %w", key, statusErr(code))
	}
}

// Get returns the value stored under key, or ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	code, data, err := c.do(ctx, http.MethodGet, kvPath(key), nil)
	if err != nil {
		return "", fmt.Errorf("client get %q: %w", key, err)
	}
	switch code {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", fmt.Errorf("client get %q: %w", key, ErrNotFound)
	default:
		return "", fmt.Errorf("client get %q: %w", key, statusErr(code))
	}

	var v types.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("client get %q: decode: %w", key, err)
	}
	return v.Value, nil
}

// Health fetches GET /health.
func (c *Client) Health(ctx context.Context) (*types.Health, error) {
	code, data, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, fmt.Errorf("client health: %w", err)
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("client health: %w", statusErr(code))
	}
	var h types.Health
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("client health: decode: %w", err)
	}
	return &h, nil
}

// do performs one request and returns the status code and full body.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http %s: %w", strings.ToLower(method), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func kvPath(key string) string {
	return "/kv/" + url.PathEscape(key)
}

func statusErr(code int) error {
	if code == http.StatusMethodNotAllowed {
		return ErrMethodNotAllowed
	}
	return fmt.Errorf("unexpected status %d", code)
}
