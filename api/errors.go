package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-rental-portal/internal/errors"
)

// ErrorKind groups failures the way the portal reports them to users
type ErrorKind int

const (
	KindNetwork      ErrorKind = iota // the API could not be reached
	KindNonJSON                       // the API answered with something other than JSON
	KindMalformed                     // JSON that does not match the expected schema
	KindUnauthorized                  // 401, the session is no longer valid
	KindClient                        // any other 4xx
	KindServer                        // 5xx
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNonJSON:
		return "non_json"
	case KindMalformed:
		return "malformed"
	case KindUnauthorized:
		return "unauthorized"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is returned for every failed round trip to the remote API. Its message
// is the human readable text shown in the alert banner.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Body    string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 from the remote API
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// KindOf returns the kind of an API error, or KindNetwork for anything else
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

// Message collapses any error into the free text string shown to users
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// errorBody is the failure shape the remote API uses
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func statusError(resp *http.Response, body []byte) *Error {
	apiErr := &Error{
		Kind:    kindForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
		Body:    string(body),
	}

	if !isJSON(resp) {
		return apiErr
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}
	switch {
	case strings.TrimSpace(eb.Message) != "":
		apiErr.Message = eb.Message
	case strings.TrimSpace(eb.Error) != "":
		apiErr.Message = eb.Error
	}
	return apiErr
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status >= 500:
		return KindServer
	default:
		return KindClient
	}
}

func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "Unable to reach the server. Please check your connection and try again.",
		Err:     fmt.Errorf("%w: %w", errors.ErrUnavailable, err),
	}
}

func isJSON(resp *http.Response) bool {
	return strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "application/json")
}
