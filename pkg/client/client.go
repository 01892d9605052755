package client

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
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/naveenspark/estate/pkg/storage"
)

// DefaultBaseURL is the API root of a local development backend.
const DefaultBaseURL = "http://localhost:8000/api"

const (
	contentTypeJSON = "application/json"
	maxErrorBody    = 1 << 20 // 1 MB
)

// Navigator receives the forced redirect to the login route when a session
// cannot be refreshed.
type Navigator interface {
	RedirectToLogin(cause error)
}

// Fields is a free-form create/update payload.
type Fields map[string]any

// Client is the Smart Property Manager API client.
//
// Every request carries the stored access token as a bearer credential. A 401
// triggers one silent refresh through /auth/token/refresh/ followed by a single
// resubmission of the original request.
type Client struct {
	baseURL     string
	store       storage.Store
	httpClient  *http.Client
	navigator   Navigator
	onRefresh   func(access, refresh string)
	coalesce    bool
	refreshes   singleflight.Group
	messagePath string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout. Zero leaves the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithNavigator sets the target of forced login redirects.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithRefreshHook registers a callback invoked with every newly issued access
// token. refresh is empty unless the backend rotated the refresh token.
func WithRefreshHook(fn func(access, refresh string)) Option {
	return func(c *Client) { c.onRefresh = fn }
}

// WithRefreshCoalescing makes concurrent 401s share a single refresh call.
func WithRefreshCoalescing(on bool) Option {
	return func(c *Client) { c.coalesce = on }
}

// WithMessagePath sets the JMESPath expression used to read error messages.
func WithMessagePath(expr string) Option {
	return func(c *Client) { c.messagePath = expr }
}

// New creates a new API client reading and writing tokens through store.
func New(baseURL string, store storage.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		store:       store,
		httpClient:  &http.Client{},
		messagePath: DefaultMessagePath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// request is an immutable description of a call. It can be sent any number
// of times because the body is held as bytes.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
}

// attempt carries the per-send state of the refresh protocol.
type attempt struct {
	retried bool
	// token overrides the stored access token for this send.
	token string
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	r := request{method: method, path: path, contentType: contentTypeJSON}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		r.body = data
	}
	return c.send(ctx, r, attempt{}, out)
}

// send runs the inbound interceptor around a single exchange.
func (c *Client) send(ctx context.Context, r request, at attempt, out any) error {
	err := c.exchange(ctx, r, at, out)
	if at.retried || !IsStatus(err, http.StatusUnauthorized) {
		return err
	}

	access, refreshErr := c.refresh(ctx)
	if refreshErr != nil && abandoned(ctx, refreshErr) {
		return fmt.Errorf("refresh token: %w", refreshErr)
	}
	if refreshErr != nil {
		c.expire(ctx, refreshErr)
		return fmt.Errorf("%w: %w", ErrSessionExpired, refreshErr)
	}
	return c.send(ctx, r, attempt{retried: true, token: access}, out)
}

// exchange performs one HTTP round trip with the outbound interceptor applied.
func (c *Client) exchange(ctx context.Context, r request, at attempt, out any) error {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", contentTypeJSON)
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if err := c.authorize(ctx, req, at); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", r.method).Str("path", r.path).Str("request_id", requestID).Msg("request failed")
		return &NetworkError{Method: r.method, URL: req.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Bool("retried", at.retried).
		Dur("elapsed", time.Since(start)).
		Str("request_id", requestID).
		Msg("api call")

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return newHTTPError(resp.StatusCode, respBody, c.messagePath)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// authorize is the outbound interceptor: attach the access token when one exists.
func (c *Client) authorize(ctx context.Context, req *http.Request, at attempt) error {
	token := at.token
	if token == "" {
		stored, ok, err := storage.Lookup(ctx, c.store, storage.KeyAccessToken)
		if err != nil {
			return fmt.Errorf("read access token: %w", err)
		}
		if ok {
			token = stored
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// withQuery appends encoded params to path.
func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// idPath renders /collection/{id}/.
func idPath(collection string, id int64) string {
	return fmt.Sprintf("%s%d/", collection, id)
}
