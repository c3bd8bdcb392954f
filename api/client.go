package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
	"golang.org/x/oauth2"
)

const contentTypeJSON = "application/json"

// Observer is notified after every round trip. It is used for metrics.
type Observer interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Client is the single place outgoing calls to the remote API are built
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
	validate   *validator.Validate
	token      string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client for the API served at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API host
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithToken returns a copy of the client that sends "Authorization: Bearer <token>"
// on every request. An empty token returns the client unchanged.
func (c *Client) WithToken(tok string) *Client {
	if tok == "" {
		return c
	}
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	cp := *c
	cp.token = tok
	cp.httpClient = &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}),
			Base:   base,
		},
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
		Timeout:       c.httpClient.Timeout,
	}
	return &cp
}

// HasToken reports whether requests will carry a bearer token
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Do performs a single round trip. Object bodies are JSON encoded, string and
// []byte bodies are sent as is. A successful response is decoded into out
// (when non-nil) and validated against its struct tags. Any failure is
// returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, start)
		return networkError(err)
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if !isJSON(resp) {
		return &Error{
			Kind:    KindNonJSON,
			Status:  resp.StatusCode,
			Message: "The server returned an unexpected response. Please try again later.",
			Body:    string(respBody),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return malformed(resp.StatusCode, respBody, err)
	}
	if err := c.validateResponse(out); err != nil {
		return malformed(resp.StatusCode, respBody, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = strings.NewReader(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("[api Do] encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("[api Do] building request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	return req, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// validateResponse checks a decoded struct, or every struct element of a slice
func (c *Client) validateResponse(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return c.validate.Struct(v.Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := c.validateResponse(v.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	default:
		return nil
	}
}

func (c *Client) observe(method, path string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(method, routeLabel(path), status, time.Since(start))
}

// routeLabel keeps metric cardinality bounded by dropping record ids
func routeLabel(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return "/" + strings.Join(parts, "/")
}

func malformed(status int, body []byte, err error) *Error {
	return &Error{
		Kind:    KindMalformed,
		Status:  status,
		Message: "The server returned data in an unexpected format.",
		Body:    string(body),
		Err:     fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err),
	}
}
