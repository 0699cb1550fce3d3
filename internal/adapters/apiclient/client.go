package apiclient

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mylibrary/internal/application"
	"mylibrary/internal/ports"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	defaultTimeout      = 30 * time.Second

	// maxErrorBody bounds how much of a failed response is read for its detail
	maxErrorBody = 64 << 10
)

// Client talks to the remote library API
type Client struct {
	baseURL  string
	http     *http.Client
	session  ports.CredentialSource
	notifier ports.Notifier
	logger   *zap.Logger
}

// Ensure Client implements LibraryAPI
var _ ports.LibraryAPI = (*Client)(nil)

// Option configures the Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithNotifier sets where failures are reported to the user
func WithNotifier(n ports.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://host/api).
// The session supplies the bearer credential and is cleared on 401.
func New(baseURL string, session ports.CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		session:  session,
		notifier: ports.NotifierFunc(func(ports.Level, string) {}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes the optional parts of a call
type Request struct {
	Body        io.Reader
	ContentType string
	Header      http.Header

	// Anonymous omits the Authorization header even when signed in
	Anonymous bool
}

// JSONBody encodes v as a JSON request body
func JSONBody(v any) (Request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Request{}, fmt.Errorf("failed to encode request: %w", err)
	}
	return Request{Body: bytes.NewReader(data), ContentType: "application/json"}, nil
}

// Call performs a request and returns the decoded-later JSON body.
// A nil result with a nil error means the server answered with an empty or
// non-JSON body.
func (c *Client) Call(ctx context.Context, method, endpoint string, req Request) (json.RawMessage, error) {
	resp, err := c.do(ctx, method, endpoint, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(method, endpoint, &application.RequestError{
			Status:  resp.StatusCode,
			Message: "failed to read response",
			Err:     err,
		})
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// do sends the request and returns the response only for 2xx statuses.
// The caller must close the body.
func (c *Client) do(ctx context.Context, method, endpoint string, req Request) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, req.Body)
	if err != nil {
		return nil, c.fail(method, endpoint, &application.RequestError{Message: "invalid request", Err: err})
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if !req.Anonymous {
		if token := c.session.Credential(); token != "" {
			httpReq.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(headerRequestID, requestID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, c.fail(method, endpoint, &application.RequestError{
			Message: "Cannot reach the library server",
			Err:     err,
		})
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := errorDetail(body)

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			c.logger.Error("failed to clear session", zap.Error(err))
		}
		return nil, c.fail(method, endpoint, &application.AuthError{Message: detail})
	}

	if detail == "" {
		detail = application.DefaultRequestMessage
	}
	return nil, c.fail(method, endpoint, &application.RequestError{
		Status:  resp.StatusCode,
		Message: detail,
	})
}

// fail logs the error and surfaces it to the user before it is returned
func (c *Client) fail(method, endpoint string, err error) error {
	level := ports.LevelError
	var reqErr *application.RequestError
	if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
		level = ports.LevelWarning
	}

	c.logger.Info("api call failed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Error(err),
	)
	c.notifier.Notify(level, err.Error())
	return err
}

// errorDetail extracts the human message from an error body. The server
// sends {"detail": "..."} or, for validation failures,
// {"detail": [{"msg": "...", ...}]}.
func errorDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		return strings.TrimSpace(items[0].Msg)
	}
	return ""
}

// callJSON performs a call and decodes the body into out. It reports false
// when the body was absent, leaving out untouched.
func (c *Client) callJSON(ctx context.Context, method, endpoint string, req Request, out any) (bool, error) {
	raw, err := c.Call(ctx, method, endpoint, req)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, c.fail(method, endpoint, &application.RequestError{
			Message: "unexpected response from server",
			Err:     err,
		})
	}
	return true, nil
}

// sendJSON encodes in as the body of a call decoded into out
func (c *Client) sendJSON(ctx context.Context, method, endpoint string, in, out any) (bool, error) {
	req, err := JSONBody(in)
	if err != nil {
		return false, c.fail(method, endpoint, &application.RequestError{Message: "invalid request", Err: err})
	}
	return c.callJSON(ctx, method, endpoint, req, out)
}
