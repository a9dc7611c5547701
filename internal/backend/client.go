// Package backend is the REST client for the ticketing backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/folio-desk/frontdesk/internal/filter"
	"github.com/folio-desk/frontdesk/internal/platform/httpx"
	"github.com/folio-desk/frontdesk/internal/tickets"
)

// Client calls the backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
	group      singleflight.Group
}

// NewClient constructs a Client. A nil httpClient gets a default with timeout;
// timeout also bounds a coalesced list fetch, which outlives the caller that
// started it.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		timeout:    timeout,
	}
}

// ListTickets fetches one page of tickets. Identical concurrent queries share
// a single backend request. The shared request is detached from any one
// caller's cancellation; each caller stops waiting when its own ctx is done.
func (c *Client) ListTickets(ctx context.Context, state filter.State) (tickets.Page, error) {
	encoded := state.Values().Encode()
	ch := c.group.DoChan(encoded, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		var page tickets.Page
		if err := c.do(fetchCtx, http.MethodGet, "/tickets?"+encoded, nil, &page); err != nil {
			return tickets.Page{}, err
		}
		return page, nil
	})

	select {
	case <-ctx.Done():
		return tickets.Page{}, fmt.Errorf("backend: GET /tickets?%s: %w", encoded, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return tickets.Page{}, res.Err
		}
		if res.Shared && c.logger != nil {
			c.logger.Debug("backend list coalesced", slog.String("query", encoded))
		}
		return res.Val.(tickets.Page), nil
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID string `json:"userId"`
}

// Authenticate checks credentials against the backend and returns the user id.
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return "", err
	}
	if res.UserID == "" {
		return "", fmt.Errorf("backend: login response without user: %w", httpx.ErrUpstream)
	}
	return res.UserID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %v: %w", method, path, err, httpx.ErrUpstream)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("backend: %s %s: %w", method, path, httpx.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("backend: %s %s: %w", method, path, httpx.ErrNotFound)
	case resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend: %s %s: status %d: %s: %w", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)), httpx.ErrUpstream)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("backend: decode %s: %v: %w", path, err, httpx.ErrUpstream)
	}
	return nil
}
