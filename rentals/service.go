// Package rentals reads and writes the records the remote property API owns.
// Nothing is cached; every call is a fresh round trip.
package rentals

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
)

// item is the envelope for single record responses. A nil Data means the API
// has no such record.
type item[T any] struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data"`
}

// list is the envelope for collection responses
type list[T any] struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Data    []T    `json:"data" validate:"dive"`
}

// Service wraps an api.Client carrying the caller's bearer token
type Service struct {
	client *api.Client
	poll   api.RetryPolicy
}

type Option func(*Service)

// WithPollPolicy sets how payment status is polled
func WithPollPolicy(policy api.RetryPolicy) Option {
	return func(s *Service) {
		s.poll = policy
	}
}

func New(client *api.Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		poll:   api.DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func getItem[T any](ctx context.Context, c *api.Client, path string) (*T, error) {
	var resp item[T]
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if err := rejected(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// getOptional treats a 404 as "no record"
func getOptional[T any](ctx context.Context, c *api.Client, path string) (*T, error) {
	v, err := getItem[T](ctx, c, path)
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, nil
	}
	return v, err
}

func getList[T any](ctx context.Context, c *api.Client, path string) ([]T, error) {
	var resp list[T]
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if err := rejected(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// send performs a write and decodes the returned record, which may be absent
func send[T any](ctx context.Context, c *api.Client, method, path string, body any) (*T, error) {
	var resp item[T]
	if err := c.Do(ctx, method, path, body, &resp); err != nil {
		return nil, err
	}
	if err := rejected(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// rejected turns {"success": false} on a 2xx into an error
func rejected(success *bool, message string) error {
	if success == nil || *success {
		return nil
	}
	if message == "" {
		message = "Request failed"
	}
	return &api.Error{Kind: api.KindClient, Status: http.StatusOK, Message: message}
}

// checked validates a form before it is sent. The failure keeps the user
// facing message and matches errors.ErrInvalid.
func checked(form any) error {
	if err := Validate(form); err != nil {
		return invalid(err)
	}
	return nil
}

func invalid(err error) error {
	return &api.Error{Kind: api.KindClient, Message: err.Error(), Err: errors.ErrInvalid}
}
