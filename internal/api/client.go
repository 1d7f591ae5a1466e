package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apierrors "github.com/samarth-qa/samarth/internal/errors"
	"github.com/samarth-qa/samarth/internal/models"
)

// maxBodySize caps how much of an answer is read into memory
const maxBodySize = 16 << 20

// Doer sends a single HTTP request. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientInterface is the subset of Client used by the chat controller and commands
type ClientInterface interface {
	Chat(ctx context.Context, query string) (*models.ChatResponse, error)
	Examples(ctx context.Context) ([]string, error)
	ServerURL() string
	Close()
}

// Client talks to the Samarth backend
type Client struct {
	httpClient Doer
	baseURL    string
	timeout    time.Duration
	newID      func() string
	logger     zerolog.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default TLS client transport
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout bounds every request. Zero disables the limit.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDFunc overrides how X-Request-ID values are generated
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		c.newID = fn
	}
}

// NewClient creates a Client for the backend at serverURL
func NewClient(serverURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", serverURL)
	}

	client := &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		newID:   uuid.NewString,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// ServerURL returns the backend base URL
func (c *Client) ServerURL() string {
	return c.baseURL
}

// Close marks the client as closed; later calls fail with ErrClientClosed
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Chat posts a query to /api/chat and decodes the answer.
//
// Returned errors are transport or decoding failures. An application failure
// reported by the backend is a nil error with Success == false.
func (c *Client) Chat(ctx context.Context, query string) (*models.ChatResponse, error) {
	body, err := json.Marshal(models.ChatRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	data, _, err := c.do(ctx, http.MethodPost, PathChat, body)
	if err != nil {
		return nil, err
	}

	return ParseChatResponse(data)
}

// Examples fetches the preset questions published by the backend
func (c *Client) Examples(ctx context.Context) ([]string, error) {
	data, status, err := c.do(ctx, http.MethodGet, PathExamples, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apierrors.NewAPIError(status, c.baseURL+PathExamples, http.StatusText(status))
	}

	return ParseExamples(data)
}

// do performs one request and returns the body and status
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	if c.IsClosed() {
		return nil, 0, apierrors.ErrClientClosed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("endpoint", endpoint).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, 0, apierrors.NewTimeoutError(fmt.Sprintf("%s after %s", endpoint, c.timeout))
		}
		return nil, 0, apierrors.NewNetworkError(strings.ToLower(method)+" request", endpoint, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	var data []byte
	if resp.Body != nil {
		data, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, resp.StatusCode, apierrors.NewNetworkError("read response", endpoint, err)
		}
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	return data, resp.StatusCode, nil
}
