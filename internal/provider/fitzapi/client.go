// Package fitzapi is the HTTP client for the fitz nutrition backend.
package fitzapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rithankoushik/fitz-cli/internal/errs"
)

const (
	DefaultBaseURL  = "http://localhost:8000/api"
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// TokenSource supplies the bearer token for each request. An empty token sends no
// Authorization header; an error matching errs.ErrUnauthorized aborts the request.
type TokenSource interface {
	Token() (string, error)
}

type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            zerolog.Logger
	debug          bool
}

// New builds a client for baseURL, e.g. http://localhost:8000/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if c.debug {
		base = &debugTransport{base: base, log: c.log}
	}
	// Shallow copy so a caller-supplied *http.Client is not mutated.
	hc := *c.http
	hc.Transport = &bearerTransport{base: base, tokens: c.tokens}
	c.http = &hc
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// bearerTransport adds the Authorization and request id headers.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	if cloned.Header.Get(requestIDHeader) == "" {
		cloned.Header.Set(requestIDHeader, uuid.NewString())
	}
	if t.tokens != nil {
		token, err := t.tokens.Token()
		if err != nil {
			return nil, err
		}
		if token != "" {
			cloned.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.base.RoundTrip(cloned)
}

// do issues one request and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observeRequest(op, "error", time.Since(start))
		if errors.Is(err, errs.ErrUnauthorized) {
			c.unauthorized(op)
			return fmt.Errorf("%s: %w", op, err)
		}
		return errs.NewNetworkError(op, err)
	}
	defer resp.Body.Close()
	observeRequest(op, strconv.Itoa(resp.StatusCode), time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewNetworkError(op, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errs.NewHTTPError(op, resp.StatusCode, errorDetail(raw))
		if apiErr.Category() == errs.Auth {
			c.unauthorized(op)
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) unauthorized(op string) {
	c.log.Warn().Str("op", op).Msg("authentication rejected")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// errorDetail prefers the server's {"detail": "..."} message over the raw body.
func errorDetail(raw []byte) string {
	var parsed struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if s, ok := parsed.Detail.(string); ok && s != "" {
			return s
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
