// Package restapi implements service.Service against the task tracker HTTP/JSON API.
package restapi

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

	"tasktrack/internal/config"
	"tasktrack/internal/log"
	"tasktrack/internal/service"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the base HTTP client (for testing).
// Authorized calls wrap its transport with the bearer token.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for the authority at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url: %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u.String(),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromConfig creates a client from cfg's api_url and timeout.
func FromConfig(cfg *config.Config) (*Client, error) {
	return New(cfg.APIURL, WithTimeout(cfg.Timeout))
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup creates an account. The success body is not inspected.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	return c.do(ctx, "signup", "", http.MethodPost, "/auth/signup", credentials{username, password}, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, "login", "", http.MethodPost, "/auth/login", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &service.RemoteError{Op: "login", Status: http.StatusOK, Message: "login response missing token"}
	}
	return resp.Token, nil
}

// ListTasks returns the token owner's tasks in authority order.
func (c *Client) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, "list tasks", token, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task and returns the authority's copy.
func (c *Client) CreateTask(ctx context.Context, token, text string) (service.Task, error) {
	var task service.Task
	body := struct {
		Text string `json:"text"`
	}{text}
	if err := c.do(ctx, "create task", token, http.MethodPost, "/tasks", body, &task); err != nil {
		return service.Task{}, err
	}
	if task.ID == "" {
		return service.Task{}, &service.RemoteError{Op: "create task", Status: http.StatusOK, Message: "create response missing task id"}
	}
	return task, nil
}

// ToggleTask flips completion and returns the authority's new value.
func (c *Client) ToggleTask(ctx context.Context, token, id string) (bool, error) {
	var resp struct {
		Completed *bool `json:"completed"`
	}
	path := "/tasks/" + url.PathEscape(id) + "/toggle"
	if err := c.do(ctx, "toggle task", token, http.MethodPatch, path, nil, &resp); err != nil {
		return false, err
	}
	if resp.Completed == nil {
		return false, &service.RemoteError{Op: "toggle task", Status: http.StatusOK, Message: "toggle response missing completed"}
	}
	return *resp.Completed, nil
}

// client returns the HTTP client for a call; authorized calls get a
// transport that adds "Authorization: Bearer <token>".
func (c *Client) client(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

// do performs one request and decodes a successful JSON body into out
// (skipped when out is nil). Every failure is a *service.RemoteError.
func (c *Client) do(ctx context.Context, op, token, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &service.RemoteError{Op: op, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &service.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client(ctx, token).Do(req)
	if err != nil {
		return &service.RemoteError{Op: op, Err: wrapTransportError(err)}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &service.RemoteError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &service.RemoteError{Op: op, Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts the authority's "message" field. Validation
// failures may carry a list of messages; they are joined with "; ".
func errorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return service.DefaultErrorMessage
	}

	var msg string
	if err := json.Unmarshal(payload.Message, &msg); err == nil {
		if strings.TrimSpace(msg) == "" {
			return service.DefaultErrorMessage
		}
		return msg
	}

	var msgs []string
	if err := json.Unmarshal(payload.Message, &msgs); err == nil && len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}
	return service.DefaultErrorMessage
}

// wrapTransportError gives timeouts a readable message.
func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}
