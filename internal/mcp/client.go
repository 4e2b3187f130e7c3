package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client is a thin REST client for the project-management API. Every tool
// call maps to exactly one HTTP request (the cascading project delete being
// the one multi-request exception).
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Do performs one API request. The endpoint is relative to /api, e.g.
// "/tickets/42?depth=1".
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	url := c.baseURL + "/api" + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(data))
	}
	return data, nil
}

func (c *Client) Get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, endpoint, body)
}

func (c *Client) Delete(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil)
}

// GetJSON fetches and decodes into dest.
func (c *Client) GetJSON(ctx context.Context, endpoint string, dest any) error {
	raw, err := c.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
