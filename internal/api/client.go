// Package api is the REST client for the barbershop backend. Wire shapes
// mirror the server's JSON envelope: {"success": bool, "message": string, ...}.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"github.com/rfmelo/barbearia-client/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "http://localhost:5000"

// ErrUnauthorized is returned for HTTP 401 responses. The notification poller
// treats it as fatal to the polling session.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-401 API failure: either a non-2xx status or a 2xx envelope
// with success=false.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d message=%q", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.Status)
}

// Client is the entry point for all REST calls.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	log          *observability.Logger
	sessionToken string

	Notifications *NotificationsService
	Chat          *ChatService
	Users         *UsersService
	Appointments  *AppointmentsService
	Prices        *PricesService
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a client for the given server. The transport is
// otel-instrumented and carries a cookie jar so a server-set session cookie
// survives across calls.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Jar:       jar,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: observability.NewLogger("api"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Notifications = &NotificationsService{client: c}
	c.Chat = &ChatService{client: c}
	c.Users = &UsersService{client: c}
	c.Appointments = &AppointmentsService{client: c}
	c.Prices = &PricesService{client: c}

	return c
}

// WithHTTPClient sets a custom HTTP client. The session cookie jar and the
// otel-instrumented transport carry over unless the replacement brings its
// own jar; a custom transport gets wrapped rather than replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Jar == nil {
			hc.Jar = c.httpClient.Jar
		}
		switch hc.Transport.(type) {
		case nil:
			hc.Transport = otelhttp.NewTransport(http.DefaultTransport)
		case *otelhttp.Transport:
		default:
			hc.Transport = otelhttp.NewTransport(hc.Transport)
		}
		c.httpClient = hc
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the client logger.
func WithLogger(log *observability.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithSessionToken resumes a stored session without logging in again.
func WithSessionToken(token string) Option {
	return func(c *Client) { c.sessionToken = token }
}

// SetSessionToken installs the session token used on subsequent requests.
func (c *Client) SetSessionToken(token string) { c.sessionToken = token }

// SessionToken returns the current session token, if any.
func (c *Client) SessionToken() string { return c.sessionToken }

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.doHeaders(ctx, method, path, nil, body, out)
}

func (c *Client) doHeaders(ctx context.Context, method, path string, header http.Header, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-ID", uuid.New().String())
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: c.sessionToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		var env struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&env) == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// checkEnvelope turns a success=false payload into an *Error.
func checkEnvelope(success bool, message string) error {
	if success {
		return nil
	}
	return &Error{Status: http.StatusOK, Message: message}
}
