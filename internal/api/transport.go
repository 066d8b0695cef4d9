package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request is a single call to the Leap API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body any
	// ID is sent as X-Request-ID. Retries of the same call share it.
	ID string
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport performs API requests. Non-2xx responses are returned as
// *ProtocolError and transport failures as *NetworkError.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// HTTPTransport is the base Transport talking HTTP to the backend.
type HTTPTransport struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures the HTTP transport.
type Option func(*HTTPTransport)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *HTTPTransport) {
		t.httpClient = client
	}
}

// WithTimeout sets the per-request timeout. The client is copied first so
// one passed through WithHTTPClient is left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(t *HTTPTransport) {
		c := *t.httpClient
		c.Timeout = timeout
		t.httpClient = &c
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(t *HTTPTransport) {
		t.token = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// NewHTTPTransport creates a transport for the API at baseURL.
func NewHTTPTransport(baseURL string, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "leap-cli",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BaseURL returns the API root this transport talks to.
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

func (t *HTTPTransport) Do(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := t.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("X-Request-ID", id)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProtocolError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(respBody),
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// serverMessage extracts {"message": "..."} from an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
