package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/ui"
)

// DefaultBaseURL is the address of a locally running server.
const DefaultBaseURL = "http://127.0.0.1:8080"

var (
	// ErrUnexpectedResponse is returned when a response body is not the
	// expected JSON.
	ErrUnexpectedResponse = errors.New("unexpected response from server")

	// ErrRequestFailed is returned when the server cannot be reached.
	ErrRequestFailed = errors.New("request to server failed")
)

// APIError is a non-2xx response carrying an error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the studygen HTTP API. It never retries.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

var _ ui.GenerateClient = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a bearer access token.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.http.SetAuthToken(token)
		}
	}
}

// WithTimeout bounds each request. The default is no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "client"))
	return c
}

// Generate sends POST /generate once. A body carrying "error" is returned
// with a nil error whatever the status code; bodies that are not JSON
// objects yield ErrUnexpectedResponse.
func (c *Client) Generate(ctx context.Context, req shared.GenerateRequest) (*shared.GenerateResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(req).
		Post("/generate")
	if err != nil {
		return nil, c.transportError(ctx, "/generate", err)
	}

	var out shared.GenerateResponse
	if err := decodeObject(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrUnexpectedResponse, resp.StatusCode(), err)
	}
	if !out.HasError() && !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d without an error message", ErrUnexpectedResponse, resp.StatusCode())
	}
	return &out, nil
}

// Register creates an account and returns its tokens.
func (c *Client) Register(ctx context.Context, email, password string) (*shared.AuthResponse, error) {
	var out shared.AuthResponse
	err := c.postJSON(ctx, "/api/auth/register", shared.RegisterRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*shared.AuthResponse, error) {
	var out shared.AuthResponse
	err := c.postJSON(ctx, "/api/auth/login", shared.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*shared.RefreshTokenResponse, error) {
	var out shared.RefreshTokenResponse
	err := c.postJSON(ctx, "/api/auth/refresh", shared.RefreshTokenRequest{RefreshToken: refreshToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Subscribe starts a subscription checkout and returns the payment URL.
func (c *Client) Subscribe(ctx context.Context) (string, error) {
	var out shared.SubscribeResponse
	if err := c.postJSON(ctx, "/subscribe", nil, &out); err != nil {
		return "", err
	}
	if out.AuthorizationURL == "" {
		return "", fmt.Errorf("%w: missing authorization_url", ErrUnexpectedResponse)
	}
	return out.AuthorizationURL, nil
}

// Page fetches the index page with the given form ("login" or "register").
func (c *Client) Page(ctx context.Context, form string) (*ui.Page, error) {
	req := c.http.R().SetContext(ctx).SetHeader("Accept", "text/html")
	if form != "" {
		req.SetQueryParam("form", form)
	}
	resp, err := req.Get("/")
	if err != nil {
		return nil, c.transportError(ctx, "/", err)
	}
	if !resp.IsSuccess() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	}
	return ui.ParsePage(bytes.NewReader(resp.Body()))
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Post(path)
	if err != nil {
		return c.transportError(ctx, path, err)
	}

	if !resp.IsSuccess() {
		var e shared.ErrorResponse
		if err := decodeObject(resp.Body(), &e); err != nil || e.Error == "" {
			return fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode())
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: e.Error}
	}
	if err := decodeObject(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, path string, err error) error {
	logger.FromContextOrDefault(ctx, c.logger).Debug("request failed",
		slog.String("path", path),
		slog.String("error", err.Error()))
	return fmt.Errorf("%w: %w", ErrRequestFailed, err)
}

// decodeObject requires body to be a single JSON object.
func decodeObject(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("body is not a JSON object")
	}
	return json.Unmarshal(trimmed, v)
}
