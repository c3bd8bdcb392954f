// Package apitest provides an in-process fake of the remote property API for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/stretchr/testify/require"
)

// Call is one request received by the fake
type Call struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

// FakeAPI routes "METHOD /path" to canned handlers and records every call
type FakeAPI struct {
	*httptest.Server

	lock   sync.RWMutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

// New starts a fake that is closed when the test finishes
func New(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		routes: make(map[string]http.HandlerFunc),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Client returns an api.Client pointed at the fake
func (f *FakeAPI) Client(opts ...api.Option) *api.Client {
	return api.New(f.URL, opts...)
}

func (f *FakeAPI) Handle(method, path string, h http.HandlerFunc) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.routes[method+" "+path] = h
}

// JSON registers a fixed JSON response
func (f *FakeAPI) JSON(method, path string, status int, body any) {
	f.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Calls returns the requests received so far
func (f *FakeAPI) Calls() []Call {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return append([]Call(nil), f.calls...)
}

// CallCount counts requests for one method and path
func (f *FakeAPI) CallCount(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// LastCall returns the most recent request for method and path
func (f *FakeAPI) LastCall(method, path string) (Call, bool) {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method && calls[i].Path == path {
			return calls[i], true
		}
	}
	return Call{}, false
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	f.lock.Lock()
	f.calls = append(f.calls, Call{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.lock.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Not found"})
		return
	}
	h(w, r)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Token signs claims into a bearer token the portal can decode
func Token(t *testing.T, claims map[string]any) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims(claims)).SignedString([]byte("fake-api-secret"))
	require.NoError(t, err)
	return raw
}
