package client

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

	"github.com/dmitrijs2005/carmarket/internal/client/session"
	"github.com/dmitrijs2005/carmarket/internal/common"
	"github.com/dmitrijs2005/carmarket/internal/logging"
	"github.com/elnormous/contenttype"
	"github.com/google/uuid"
)

const (
	jsonContentType = "application/json"

	// error bodies larger than this are not worth decoding
	maxErrorBody = 1 << 20
)

var jsonMediaType = contenttype.NewMediaType(jsonContentType)

// UnauthorizedHandler is notified after a 401 has cleared the session.
type UnauthorizedHandler func(ctx context.Context)

type HTTPClient struct {
	baseURL        *url.URL
	http           *http.Client
	tokens         session.TokenSource
	log            logging.Logger
	onUnauthorized UnauthorizedHandler
	newRequestID   func() string
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l.With("component", "api") }
}

// WithUnauthorizedHandler registers the single 401 listener.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *HTTPClient) { c.onUnauthorized = h }
}

// New builds a client for the API rooted at baseURL, e.g.
// "http://localhost:3000/api".
func New(baseURL string, tokens session.TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &HTTPClient{
		baseURL:      u,
		http:         &http.Client{Timeout: 15 * time.Second},
		tokens:       tokens,
		log:          logging.Discard(),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *HTTPClient) BaseURL() string { return c.baseURL.String() }

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// request describes one outbound call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	r := request{method: method, path: path}
	if payload == nil {
		return r, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}
	r.body = bytes.NewReader(b)
	r.contentType = jsonContentType
	return r, nil
}

// prepare applies the outbound policy: default headers, request id and the
// bearer token when one is stored.
func (c *HTTPClient) prepare(ctx context.Context, r request) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), r.body)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", jsonContentType)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	requestID := c.newRequestID()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.log.Warn(ctx, "session read failed, sending anonymous request", "error", err)
		} else if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}
	return req, requestID, nil
}

// do sends r and decodes a 2xx JSON body into out (when out is non-nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	req, requestID, err := c.prepare(ctx, r)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", r.method, r.path, ctxErr)
		}
		c.log.Warn(ctx, "api request failed", "method", r.method, "path", r.path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, r.method, r.path, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "api request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp, requestID)
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

// handleUnauthorized clears the session and notifies the listener. It runs
// for every 401, so concurrent failures repeat it; both steps are idempotent.
func (c *HTTPClient) handleUnauthorized(ctx context.Context) {
	c.log.Warn(ctx, "unauthorized response, clearing session")
	if c.tokens != nil {
		if err := c.tokens.Clear(ctx); err != nil {
			c.log.Error(ctx, "clear session failed", "error", err)
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func decodeAPIError(resp *http.Response, requestID string) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, RequestID: requestID}

	mt := contenttype.NewMediaType(resp.Header.Get("Content-Type"))
	if !mt.Matches(jsonMediaType) {
		return apiErr
	}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err != nil {
		return apiErr
	}
	apiErr.Message = body.Message
	if apiErr.Message == "" {
		apiErr.Message = body.Error
	}
	apiErr.Errors = body.Errors
	return apiErr
}

// get, send and remove are the shorthands the endpoint files use.

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload, out any) error {
	r, err := jsonRequest(method, path, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

func (c *HTTPClient) remove(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path}, nil)
}
