package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// Client reads the activity feed of a marketplace server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a client for the server at addr.
func NewClient(addr string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(addr, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse addr: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *Client) streamURL() string {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path += "/v1/activity/stream"
	return u.String()
}

// FetchActivity returns the newest limit feed entries.
func (c *Client) FetchActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	u := *c.baseURL
	u.Path += "/v1/activity"
	u.RawQuery = url.Values{"limit": {strconv.Itoa(limit)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp domain.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("fetch activity: status %d: %s", resp.StatusCode, errResp.Error)
	}

	var out domain.ListActivityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	return out.Events, nil
}

// Follow calls refresh once per connection and again for every insert
// notification. It reconnects with exponential backoff until ctx is done.
func (c *Client) Follow(ctx context.Context, refresh func()) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	operation := func() error {
		err := c.stream(ctx, bo, refresh)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Printf("Disconnected (%v), reconnecting in %s", err, wait.Round(time.Millisecond))
	}
	return backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify)
}

func (c *Client) stream(ctx context.Context, bo *backoff.ExponentialBackOff, refresh func()) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.streamURL(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var msg domain.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		switch msg.Type {
		case domain.StreamTypeHello:
			bo.Reset()
			refresh()
		case domain.StreamTypeActivityInserted:
			refresh()
		}
	}
}
