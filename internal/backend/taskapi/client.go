// Package taskapi implements the service.Gateway interface against the task REST API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskclient/internal/config"
	"taskclient/internal/logger"
	"taskclient/internal/service"
)

const (
	// SignupPath registers an account.
	SignupPath = "/signup"

	// LoginPath is the OAuth2 password-grant token endpoint.
	LoginPath = "/login"

	// TasksPath lists and creates tasks.
	TasksPath = "/tasks"

	// APITimeout is the default timeout for API calls.
	APITimeout = config.DefaultTimeout
)

// Client implements service.Gateway over HTTP.
// It holds no session state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a client for the configured backend.
// Every request gets an X-Request-ID and is logged at debug level.
func New(cfg *config.Config, log *logger.Logger) *Client {
	httpClient := &http.Client{
		Transport: &requestIDTransport{log: log},
	}
	c := NewWithHTTPClient(cfg.BaseURL, httpClient)
	c.timeout = cfg.Timeout
	return c
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    APITimeout,
	}
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password})
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrSignupFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SignupPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrSignupFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(c.httpClient, req)
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrSignupFailed, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: response is not JSON", service.ErrSignupFailed)
	}
	return nil
}

// Login exchanges credentials for an access token using the OAuth2
// password grant. The form carries grant_type, username and password.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + LoginPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("%w: %w", service.ErrLoginFailed, wrapError(err))
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: response missing access_token", service.ErrLoginFailed)
	}
	return token.AccessToken, nil
}

// ListTasks returns the tasks for the token's owner in API order.
func (c *Client) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: %w", service.ErrTaskFetchFailed, service.ErrNotLoggedIn)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+TasksPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrTaskFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(c.bearerClient(ctx, token), req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrTaskFetchFailed, err)
	}

	var tasks []service.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %w", service.ErrTaskFetchFailed, err)
	}
	return tasks, nil
}

// CreateTask creates a new task. The echoed task is discarded.
func (c *Client) CreateTask(ctx context.Context, token, title, description string) error {
	if title == "" {
		return service.ErrValidation
	}
	if token == "" {
		return fmt.Errorf("%w: %w", service.ErrTaskCreateFailed, service.ErrNotLoggedIn)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(service.NewTask{Title: title, Description: description})
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrTaskCreateFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+TasksPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrTaskCreateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(c.bearerClient(ctx, token), req); err != nil {
		return fmt.Errorf("%w: %w", service.ErrTaskCreateFailed, err)
	}
	return nil
}

// bearerClient returns an HTTP client that sends "Authorization: Bearer <token>"
// on top of the client's own transport.
func (c *Client) bearerClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return oauth2.NewClient(ctx, src)
}

// do sends the request and returns the body of a 2xx response.
func (c *Client) do(hc *http.Client, req *http.Request) ([]byte, error) {
	res, err := hc.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, wrapError(err)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	return data, nil
}

// StatusError describes a non-2xx backend response.
type StatusError struct {
	Code   int
	Detail string
	err    error
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

func (e *StatusError) Unwrap() error { return e.err }

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &StatusError{Code: apiErr.Code, Detail: backendDetail([]byte(apiErr.Body)), err: err}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return &StatusError{Code: retrieveErr.Response.StatusCode, Detail: backendDetail(retrieveErr.Body), err: err}
	}

	return err
}

// backendDetail extracts the "detail" message the backend puts in error bodies.
// Structured details (validation error lists) are not flattened.
func backendDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
