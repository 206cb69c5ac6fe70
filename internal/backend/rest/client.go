// Package rest implements the service.Service interface against the
// TaskMaster REST API.
package rest

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

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskmaster/internal/config"
	"taskmaster/internal/service"
)

// APITimeout is the default timeout for API calls.
const APITimeout = config.DefaultTimeout

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration

	// anon carries the auth endpoints; api adds the bearer token.
	anon *http.Client
	api  *http.Client
}

// New creates a client for cfg.APIURL. tokens is consulted on every task
// request, so a session change is picked up by the next call.
func New(cfg *config.Config, tokens oauth2.TokenSource) (*Client, error) {
	base, err := url.Parse(cfg.APIURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", cfg.APIURL)
	}
	c := NewWithHTTPClient(cfg.APIURL, http.DefaultClient, tokens)
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, tokens oauth2.TokenSource) *Client {
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: APITimeout,
		anon:    httpClient,
		api: &http.Client{
			Transport: &oauth2.Transport{Source: tokens, Base: base},
			Jar:       httpClient.Jar,
		},
	}
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, r service.Registration) (service.Session, error) {
	var s service.Session
	err := c.do(ctx, c.anon, http.MethodPost, "/auth/register", r, &s)
	return s, err
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, cr service.Credentials) (service.Session, error) {
	var s service.Session
	err := c.do(ctx, c.anon, http.MethodPost, "/auth/login", cr, &s)
	return s, err
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, c.api, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, c.api, http.MethodPost, "/tasks", t, &task)
	return task, err
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, u service.TaskUpdate) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, c.api, http.MethodPut, "/tasks/"+url.PathEscape(id), u, &task)
	return task, err
}

// ToggleTask implements service.Service.
func (c *Client) ToggleTask(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, c.api, http.MethodPatch, "/tasks/"+url.PathEscape(id)+"/toggle", nil, &task)
	return task, err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, c.api, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// do sends one JSON request and decodes the JSON response into out.
// Non-2xx responses come back as *googleapi.Error; anything that prevents a
// usable response wraps service.ErrUnavailable.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return withMessage(err)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", service.ErrUnavailable, method, path, err)
	}
	return nil
}

// withMessage fills Message from the store's {"message": ...} error body.
func withMessage(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(apiErr.Body), &body) == nil && apiErr.Message == "" {
		apiErr.Message = body.Message
	}
	return apiErr
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, service.ErrNoSession) {
		return service.ErrNoSession
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", service.ErrUnavailable)
	}
	return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
}
