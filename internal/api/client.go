package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inventory/internal/model"
)

// Client is a thin HTTP client for the inventory API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL (e.g. http://host:port).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Properties asks the inventory to fetch and register hostname.
func (c *Client) Properties(ctx context.Context, hostname string) (PropertiesResponse, error) {
	var resp PropertiesResponse
	res, err := c.do(ctx, http.MethodGet, "/systems/"+url.PathEscape(hostname))
	if err != nil {
		return resp, err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(&resp.Properties); err != nil {
		return resp, err
	}
	resp.Fallback = res.Header.Get(HeaderFallback) == "yes"
	resp.Reason = res.Header.Get(HeaderFallbackReason)
	return resp, nil
}

// Systems returns the current inventory snapshot.
func (c *Client) Systems(ctx context.Context) ([]model.Entry, error) {
	res, err := c.do(ctx, http.MethodGet, "/systems")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var entries []model.Entry
	if err := json.NewDecoder(res.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Reset clears the inventory.
func (c *Client) Reset(ctx context.Context) error {
	res, err := c.do(ctx, http.MethodPost, "/systems/reset")
	if err != nil {
		return err
	}
	return res.Body.Close()
}

// Health returns the service liveness summary.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	res, err := c.do(ctx, http.MethodGet, "/health")
	if err != nil {
		return resp, err
	}
	defer res.Body.Close()

	err = json.NewDecoder(res.Body).Decode(&resp)
	return resp, err
}

// do performs the request and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)
		msg := strings.TrimSpace(string(body))
		if msg != "" {
			return nil, fmt.Errorf("request failed: %s: %s", res.Status, msg)
		}
		return nil, fmt.Errorf("request failed: %s", res.Status)
	}
	return res, nil
}
