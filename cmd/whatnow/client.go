package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kalambet/whatnow/internal/api"
	"github.com/kalambet/whatnow/internal/catalog"
	"github.com/kalambet/whatnow/internal/config"
	"github.com/kalambet/whatnow/internal/session"
)

// apiClient talks to a running whatnow server on loopback.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(cfg config.Config) *apiClient {
	return &apiClient{
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// runningServer returns a client for a live `whatnow serve`, or nil when
// none answers. Commands that change state go through the server when it is
// up so that its in-memory session sees the change.
var runningServer = func() *apiClient {
	cfg, err := config.Load()
	if err != nil {
		return nil
	}
	c := newAPIClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := c.health(ctx); err != nil {
		return nil
	}
	return c
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable, is whatnow serve running? (%w)", err)
	}
	return resp, nil
}

func (c *apiClient) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// health returns nil when the server answers /health with 200.
func (c *apiClient) health(ctx context.Context) error {
	resp, err := c.get(ctx, "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (c *apiClient) setFilter(ctx context.Context, spec catalog.FilterSpec) (session.Pick, error) {
	var p session.Pick
	resp, err := c.do(ctx, http.MethodPut, "/filter", spec)
	if err != nil {
		return p, err
	}
	return p, decodeJSON(resp, &p)
}

func (c *apiClient) activities(ctx context.Context, spec catalog.FilterSpec) ([]api.ActivityView, error) {
	q := url.Values{}
	if spec.Category != "" && spec.Category != catalog.CategoryAll {
		q.Set("category", string(spec.Category))
	}
	if spec.Mood != "" {
		q.Set("mood", string(spec.Mood))
	}
	if spec.MaxDuration > 0 {
		q.Set("max_duration", strconv.Itoa(spec.MaxDuration))
	}
	path := "/activities"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var views []api.ActivityView
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return views, decodeJSON(resp, &views)
}

func (c *apiClient) favorites(ctx context.Context) ([]api.ActivityView, error) {
	var views []api.ActivityView
	resp, err := c.get(ctx, "/favorites")
	if err != nil {
		return nil, err
	}
	return views, decodeJSON(resp, &views)
}

func (c *apiClient) toggleFavorite(ctx context.Context, id int) (api.ToggleResult, error) {
	var res api.ToggleResult
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/favorites/%d/toggle", id), nil)
	if err != nil {
		return res, err
	}
	return res, decodeJSON(resp, &res)
}

func (c *apiClient) clearFavorites(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/favorites", nil)
	if err != nil {
		return err
	}
	var views []api.ActivityView
	return decodeJSON(resp, &views)
}

// decodeJSON decodes a success body into v, or turns an error response into
// an error carrying the server's message.
func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, envelope.Error.Message)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
