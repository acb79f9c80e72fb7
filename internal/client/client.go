// Package client implements the in-process item cache every view reads from.
//
// The cache holds the signed-in user's items, applies mutations optimistically
// before the API confirms them, and rolls back to a captured snapshot when a
// request fails. Each mutation captures only the entities it touches, so
// overlapping operations cannot clobber each other's rollback state. A
// time-boxed freshness window bounds redundant refetching on repeated view
// mounts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/dukerupert/hamfast/internal/apperr"
	"github.com/dukerupert/hamfast/internal/model"
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// FreshFor is how long a successful fetch satisfies non-forced fetches.
	FreshFor time.Duration
}

// Client is the process-wide item store. Construct one per signed-in user
// and share it by reference; all collection writes go through its methods.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	fetchGroup singleflight.Group

	mu        sync.Mutex
	items     []model.Item
	lastFetch time.Time
}

// New creates a client. Zero Timeout and FreshFor get defaults of 10 seconds
// and 5 minutes.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FreshFor == 0 {
		cfg.FreshFor = 5 * time.Minute
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// SetToken replaces the bearer token, e.g. after a fresh login.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.cfg.Token = token
	c.mu.Unlock()
}

// Fetch loads the item collection from the API. When force is false, a fetch
// inside the freshness window with a non-empty collection is a no-op.
// Concurrent callers share one in-flight request. A fetch that loses a race
// with a forced refetch is tolerated: the later response wins wholesale.
func (c *Client) Fetch(ctx context.Context, force bool) error {
	c.mu.Lock()
	fresh := len(c.items) > 0 && time.Since(c.lastFetch) < c.cfg.FreshFor
	c.mu.Unlock()
	if !force && fresh {
		return nil
	}

	_, err, _ := c.fetchGroup.Do("fetch", func() (any, error) {
		var fetched []model.Item
		backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			fetched = nil
			if err := c.do(ctx, http.MethodGet, "/api/items", nil, &fetched); err != nil {
				if apperr.Is(err, apperr.CodeTransient) {
					return retry.RetryableError(err)
				}
				return err
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			// Absent payload means an empty list, not an error.
			fetched = []model.Item{}
		}

		c.mu.Lock()
		c.items = fetched
		c.lastFetch = time.Now()
		c.mu.Unlock()

		c.logger.Debug("items fetched", "count", len(fetched))
		return nil, nil
	})
	return err
}

// do performs one API round-trip and classifies failures.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	token := c.cfg.Token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Transient("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&envelope)
		msg := envelope.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode >= 500 {
			return apperr.Transient(msg, nil)
		}
		return apperr.FromHTTPStatus(resp.StatusCode, msg)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Transient("decode response", err)
	}
	return nil
}

// indexOf returns the position of id in the collection. Callers hold mu.
func (c *Client) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
