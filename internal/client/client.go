// Package client talks to the TTMS backend REST API.
//
// Auth-error detection lives here and nowhere else: any 401/403 from the
// backend is surfaced as ErrUnauthorized so every caller applies the same
// expired-session policy.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
)

// ErrUnauthorized reports an expired or rejected bearer token.
var ErrUnauthorized = errors.New("unauthorized: session expired")

// Client is a resty-backed TTMS API client.
type Client struct {
	http *resty.Client
}

// apiError mirrors the backend error payload.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// New builds a client for the given backend base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{http: httpClient}
}

func (c *Client) get(ctx context.Context, token, path string, result interface{}) error {
	apiErr := new(apiError)
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return fmt.Errorf("GET %s: %w", path, ErrUnauthorized)
	case resp.StatusCode() >= http.StatusBadRequest:
		if msg := apiErr.text(); msg != "" {
			return fmt.Errorf("GET %s: %s (status %d)", path, msg, resp.StatusCode())
		}
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode())
	}
	return nil
}

// ListMolds fetches every mold visible to the caller.
func (c *Client) ListMolds(ctx context.Context, token string) ([]entity.Mold, error) {
	var molds []entity.Mold
	if err := c.get(ctx, token, "/api/mold/shared", &molds); err != nil {
		return nil, err
	}
	return entity.NormalizeMolds(molds), nil
}

// ListProcesses fetches every production process visible to the caller.
func (c *Client) ListProcesses(ctx context.Context, token string) ([]entity.Process, error) {
	var processes []entity.Process
	if err := c.get(ctx, token, "/api/process/shared", &processes); err != nil {
		return nil, err
	}
	return entity.NormalizeProcesses(processes), nil
}

// ListUsers fetches the internal user list (manager-only endpoint).
func (c *Client) ListUsers(ctx context.Context, token string) ([]entity.User, error) {
	var users []entity.User
	if err := c.get(ctx, token, "/api/manager/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListCustomers fetches the customer list.
func (c *Client) ListCustomers(ctx context.Context, token string) ([]entity.Customer, error) {
	var customers []entity.Customer
	if err := c.get(ctx, token, "/api/customers", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// ListTools fetches every cutting tool request visible to the caller.
func (c *Client) ListTools(ctx context.Context, token string) ([]entity.Tool, error) {
	var tools []entity.Tool
	if err := c.get(ctx, token, "/api/tool/shared", &tools); err != nil {
		return nil, err
	}
	return entity.NormalizeTools(tools), nil
}

// YearAnalytics fetches the backend-derived analytics snapshot for a year.
func (c *Client) YearAnalytics(ctx context.Context, token string, year int) (*entity.AnalyticsSnapshot, error) {
	var snapshot entity.AnalyticsSnapshot
	if err := c.get(ctx, token, fmt.Sprintf("/api/mold/analytics/%d", year), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
