package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-rental-portal/internal/apitest"
	"github.com/jrsteele09/go-rental-portal/internal/config"
	"github.com/jrsteele09/go-rental-portal/internal/metrics"
	"github.com/jrsteele09/go-rental-portal/server"
	"github.com/jrsteele09/go-rental-portal/sessions"
	"github.com/jrsteele09/go-rental-portal/users"
	"github.com/stretchr/testify/require"
)

const browserCookie = "portal_browser_id"

type harness struct {
	srv     *server.Server
	fake    *apitest.FakeAPI
	store   *sessions.InMemoryStore
	manager *sessions.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("SESSION_EXPIRED_REDIRECT_DELAY", "3s")
	t.Setenv("PAYMENT_POLL_ATTEMPTS", "3")
	t.Setenv("PAYMENT_POLL_INTERVAL", "1ms")

	fake := apitest.New(t)
	store := sessions.NewInMemoryStore()
	manager := sessions.NewManager(store, fake.Client())
	srv, err := server.New(config.New(), manager, server.WithMetrics(metrics.New()))
	require.NoError(t, err)
	t.Cleanup(manager.Wait)

	return &harness{srv: srv, fake: fake, store: store, manager: manager}
}

// loginAs seeds a live session for a new browser and returns its id
func (h *harness) loginAs(t *testing.T, role users.RoleType) string {
	t.Helper()
	ctx := context.Background()
	browserID := sessions.NewBrowserID()
	tok := apitest.Token(t, map[string]any{
		"id":    "u-1",
		"email": "jane@example.com",
		"name":  "Jane",
		"role":  role.String(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, h.store.Set(ctx, browserID, sessions.KeyToken, tok))
	require.NoError(t, h.store.Set(ctx, browserID, sessions.KeyRole, role.String()))
	return browserID
}

func (h *harness) do(t *testing.T, method, target, browserID string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if browserID != "" {
		req.AddCookie(&http.Cookie{Name: browserCookie, Value: browserID})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	return rec
}

func (h *harness) persisted(t *testing.T, browserID string, key sessions.Key) (string, bool) {
	t.Helper()
	value, ok, err := h.store.Get(context.Background(), browserID, key)
	require.NoError(t, err)
	return value, ok
}

func browserIDFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == browserCookie {
			return c.Value
		}
	}
	t.Fatal("browser cookie not set")
	return ""
}

func loginResponse(t *testing.T, role string) map[string]any {
	return map[string]any{
		"success": true,
		"token": apitest.Token(t, map[string]any{
			"id":   "u-1",
			"role": role,
			"exp":  time.Now().Add(time.Hour).Unix(),
		}),
		"user": map[string]any{"id": "u-1", "email": "jane@example.com", "name": "Jane", "role": role},
	}
}

func TestLogin(t *testing.T) {
	form := url.Values{"email": {"jane@example.com"}, "password": {"Secret123"}}

	t.Run("success redirects to the role dashboard", func(t *testing.T) {
		h := newHarness(t)
		h.fake.JSON(http.MethodPost, "/api/auth/login", http.StatusOK, loginResponse(t, "tenant"))

		rec := h.do(t, http.MethodPost, "/tenant-login", "", form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/tenant/dashboard", rec.Header().Get("Location"))

		browserID := browserIDFrom(t, rec)
		_, ok := h.persisted(t, browserID, sessions.KeyToken)
		require.True(t, ok)
		role, _ := h.persisted(t, browserID, sessions.KeyRole)
		require.Equal(t, "tenant", role)
	})

	t.Run("htmx login gets an HX-Redirect", func(t *testing.T) {
		h := newHarness(t)
		h.fake.JSON(http.MethodPost, "/api/auth/login", http.StatusOK, loginResponse(t, "caretaker"))

		rec := h.do(t, http.MethodPost, "/caretaker-login", "", form, map[string]string{"HX-Request": "true"})
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "/caretaker/dashboard", rec.Header().Get("HX-Redirect"))
	})

	t.Run("failure shows the server message", func(t *testing.T) {
		h := newHarness(t)
		h.fake.JSON(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Invalid credentials",
		})

		rec := h.do(t, http.MethodPost, "/tenant-login", "", form, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Invalid credentials")
		require.Contains(t, rec.Body.String(), `value="jane@example.com"`)
	})

	t.Run("missing fields never reach the API", func(t *testing.T) {
		h := newHarness(t)

		rec := h.do(t, http.MethodPost, "/tenant-login", "", url.Values{"email": {"jane@example.com"}}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Email and password are required")
		require.Empty(t, h.fake.Calls())
	})

	t.Run("opaque token survives the next request", func(t *testing.T) {
		h := newHarness(t)
		h.fake.JSON(http.MethodPost, "/api/auth/login", http.StatusOK, map[string]any{
			"success": true,
			"token":   "t1",
			"user":    map[string]any{"id": "u-1", "email": "jane@example.com", "name": "Jane", "role": "tenant"},
		})

		rec := h.do(t, http.MethodPost, "/tenant-login", "", form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/tenant/dashboard", rec.Header().Get("Location"))
		browserID := browserIDFrom(t, rec)

		rec = h.do(t, http.MethodGet, "/tenant/dashboard", browserID, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("Location"))
		require.Contains(t, rec.Body.String(), "Jane")

		tok, ok := h.persisted(t, browserID, sessions.KeyToken)
		require.True(t, ok)
		require.Equal(t, "t1", tok)
		calls := h.fake.Calls()
		require.Greater(t, len(calls), 1)
		for _, call := range calls[1:] {
			require.Equal(t, "Bearer t1", call.Authorization, call.Path)
		}
	})

	t.Run("numeric user id", func(t *testing.T) {
		h := newHarness(t)
		resp := loginResponse(t, "caretaker")
		resp["user"] = map[string]any{"id": 7, "email": "jane@example.com", "name": "Jane", "role": "caretaker"}
		h.fake.JSON(http.MethodPost, "/api/auth/login", http.StatusOK, resp)

		rec := h.do(t, http.MethodPost, "/caretaker-login", "", form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/caretaker/dashboard", rec.Header().Get("Location"))

		stored, ok := h.persisted(t, browserIDFrom(t, rec), sessions.KeyUser)
		require.True(t, ok)
		require.Contains(t, stored, `"id":"7"`)
	})

	t.Run("a planted browser id is replaced", func(t *testing.T) {
		h := newHarness(t)
		h.fake.JSON(http.MethodPost, "/api/auth/login", http.StatusOK, loginResponse(t, "tenant"))
		planted := "attacker-chosen-id"

		rec := h.do(t, http.MethodPost, "/tenant-login", planted, form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		issued := browserIDFrom(t, rec)
		require.NotEqual(t, planted, issued)
		require.Len(t, rec.Result().Cookies(), 1)
		_, ok := h.persisted(t, issued, sessions.KeyToken)
		require.True(t, ok)
		for _, key := range sessions.AllKeys {
			_, ok := h.persisted(t, planted, key)
			require.False(t, ok, "key %s should not stay under the planted id", key)
		}

		rec = h.do(t, http.MethodGet, "/tenant/dashboard", planted, nil, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/tenant-login", rec.Header().Get("Location"))
	})

	t.Run("logged in visitors skip the login page", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleAdmin)

		rec := h.do(t, http.MethodGet, "/tenant-login", browserID, nil, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("anonymous visitors go to the matching login page", func(t *testing.T) {
		h := newHarness(t)

		rec := h.do(t, http.MethodGet, "/caretaker/dashboard", "", nil, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/caretaker-login", rec.Header().Get("Location"))
	})

	t.Run("another role is sent to unauthorized", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)

		rec := h.do(t, http.MethodGet, "/admin/tenants", browserID, nil, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/unauthorized", rec.Header().Get("Location"))
		require.Empty(t, h.fake.Calls())
	})

	t.Run("unauthorized page links back to the dashboard", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)

		rec := h.do(t, http.MethodGet, "/unauthorized", browserID, nil, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), `href="/tenant/dashboard"`)
	})
}

func TestTenantLease_ViewStates(t *testing.T) {
	t.Run("data", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)
		h.fake.JSON(http.MethodGet, "/api/tenant/lease", http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"id":           "l-1",
				"status":       "pending",
				"room_number":  "A4",
				"monthly_rent": 15000,
			},
		})

		rec := h.do(t, http.MethodGet, "/tenant/lease", browserID, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, "KES 15,000.00")
		require.Contains(t, body, "Sign lease")

		call, ok := h.fake.LastCall(http.MethodGet, "/api/tenant/lease")
		require.True(t, ok)
		require.True(t, strings.HasPrefix(call.Authorization, "Bearer "))
	})

	t.Run("no data", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)

		rec := h.do(t, http.MethodGet, "/tenant/lease", browserID, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Nothing to show yet.")
	})

	t.Run("error", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)
		h.fake.JSON(http.MethodGet, "/api/tenant/lease", http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Server Error",
		})

		rec := h.do(t, http.MethodGet, "/tenant/lease", browserID, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Server Error")
		require.Contains(t, rec.Body.String(), "Try again")
	})

	t.Run("htmx requests get only the content block", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)

		rec := h.do(t, http.MethodGet, "/tenant/lease", browserID, nil, map[string]string{"HX-Request": "true"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), "<html")
		require.Contains(t, rec.Body.String(), "My lease")
	})
}

func TestSessionExpiredByAPI(t *testing.T) {
	unauthorized := map[string]any{"success": false, "message": "Token expired"}

	t.Run("full page", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleCaretaker)
		h.fake.JSON(http.MethodGet, "/api/caretaker/rooms/available", http.StatusUnauthorized, unauthorized)

		rec := h.do(t, http.MethodGet, "/caretaker/rooms", browserID, nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "3; url=/caretaker-login", rec.Header().Get("Refresh"))
		require.Contains(t, rec.Body.String(), "Session expired. Please log in again.")

		for _, key := range sessions.AllKeys {
			_, ok := h.persisted(t, browserID, key)
			require.False(t, ok, "key %s should be cleared", key)
		}
	})

	t.Run("htmx swap", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)
		h.fake.JSON(http.MethodGet, "/api/tenant/lease", http.StatusUnauthorized, unauthorized)

		rec := h.do(t, http.MethodGet, "/tenant/lease", browserID, nil, map[string]string{"HX-Request": "true"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `hx-get="/tenant-login"`)
		require.Contains(t, rec.Body.String(), "load delay:3s")
	})

	t.Run("failed action", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)
		h.fake.JSON(http.MethodPost, "/api/tenant/vacate", http.StatusUnauthorized, unauthorized)

		rec := h.do(t, http.MethodPost, "/tenant/vacate", browserID, url.Values{"move_out_date": {"2026-12-31"}}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		_, ok := h.persisted(t, browserID, sessions.KeyToken)
		require.False(t, ok)
	})
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	browserID := h.loginAs(t, users.RoleCaretaker)
	h.fake.JSON(http.MethodPost, "/api/auth/logout", http.StatusOK, map[string]any{"success": true})

	rec := h.do(t, http.MethodPost, "/logout", browserID, url.Values{}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/caretaker-login?success=You+have+been+logged+out", rec.Header().Get("Location"))

	_, ok := h.persisted(t, browserID, sessions.KeyToken)
	require.False(t, ok)
	require.NotEqual(t, browserID, browserIDFrom(t, rec))

	h.manager.Wait()
	require.Equal(t, 1, h.fake.CallCount(http.MethodPost, "/api/auth/logout"))

	t.Run("GET does not log out", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)

		rec := h.do(t, http.MethodGet, "/logout", browserID, nil, nil)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		_, ok := h.persisted(t, browserID, sessions.KeyToken)
		require.True(t, ok)
	})
}

func TestTenantPayments(t *testing.T) {
	t.Run("submit redirects to the status page", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)
		h.fake.JSON(http.MethodPost, "/api/tenant/payments", http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": "p-9", "amount": 15000, "status": "pending"},
		})

		form := url.Values{"amount": {"15,000"}, "method": {"mpesa"}, "phone": {"0712345678"}}
		rec := h.do(t, http.MethodPost, "/tenant/payments", browserID, form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/tenant/payments/p-9/status", rec.Header().Get("Location"))

		call, ok := h.fake.LastCall(http.MethodPost, "/api/tenant/payments")
		require.True(t, ok)
		var sent map[string]any
		require.NoError(t, json.Unmarshal(call.Body, &sent))
		require.Equal(t, float64(15000), sent["amount"])
		require.Equal(t, "mpesa", sent["method"])
	})

	t.Run("invalid amount", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)

		rec := h.do(t, http.MethodPost, "/tenant/payments", browserID, url.Values{"amount": {"lots"}, "method": {"card"}}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Contains(t, rec.Header().Get("Location"), "/tenant/payments?error=")
		require.Empty(t, h.fake.Calls())
	})

	t.Run("status polls until completed", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)
		var calls atomic.Int32
		h.fake.Handle(http.MethodGet, "/api/tenant/payments/p-9/status", func(w http.ResponseWriter, _ *http.Request) {
			status := "pending"
			if calls.Add(1) == 2 {
				status = "completed"
			}
			apitest.WriteJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"id": "p-9", "amount": 15000, "status": status},
			})
		})

		rec := h.do(t, http.MethodGet, "/tenant/payments/p-9/status", browserID, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, int32(2), calls.Load())
		require.Contains(t, rec.Body.String(), "Completed")
		require.NotContains(t, rec.Body.String(), "Waiting for confirmation")
	})
}

func TestAdminTenant(t *testing.T) {
	t.Run("unknown tenant is a 404 page", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleAdmin)

		rec := h.do(t, http.MethodGet, "/admin/tenant/t-404", browserID, nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "Tenant not found")
	})

	t.Run("vacate decision returns to a local admin page only", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleAdmin)
		h.fake.JSON(http.MethodPut, "/api/admin/vacate/v-1", http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": "v-1", "status": "approved"},
		})

		form := url.Values{"status": {"approved"}, "return_to": {"https://evil.example/admin/"}}
		rec := h.do(t, http.MethodPost, "/admin/vacate/v-1", browserID, form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/admin/dashboard?success="))
	})
}

func TestValidatePasswordHandler(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/validate-password", "", url.Values{"password": {"short"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "at least 8 characters")
	require.Contains(t, rec.Header().Get("HX-Trigger"), "passwordInvalid")

	rec = h.do(t, http.MethodPost, "/api/validate-password", "", url.Values{"password": {"Secret123"}}, nil)
	require.Contains(t, rec.Body.String(), "Strong password")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/healthz", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/metrics", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/css/portal.css", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	rec = h.do(t, http.MethodGet, "/css/missing.css", "", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileUpdate(t *testing.T) {
	t.Run("only changed fields are sent", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)
		h.fake.JSON(http.MethodPut, "/api/auth/profile", http.StatusOK, map[string]any{
			"success": true,
			"user":    map[string]any{"id": "u-1", "email": "jane@example.com", "name": "Janet", "role": "tenant"},
		})

		form := url.Values{"name": {"Janet"}, "email": {"jane@example.com"}}
		rec := h.do(t, http.MethodPost, "/profile", browserID, form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/profile?success=Profile+updated", rec.Header().Get("Location"))

		call, ok := h.fake.LastCall(http.MethodPut, "/api/auth/profile")
		require.True(t, ok)
		require.JSONEq(t, `{"name":"Janet"}`, string(call.Body))
	})

	t.Run("nothing changed makes no call", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleTenant)

		rec := h.do(t, http.MethodPost, "/profile", browserID, url.Values{"name": {"Jane"}}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/profile?success=Nothing+to+update", rec.Header().Get("Location"))
		require.Empty(t, h.fake.Calls())
	})
}

func TestSignup(t *testing.T) {
	form := url.Values{
		"name":             {"Jane Doe"},
		"email":            {"jane@example.com"},
		"phone":            {"0712 345 678"},
		"password":         {"Secret123"},
		"confirm_password": {"Secret123"},
	}

	t.Run("success logs in on a fresh browser id", func(t *testing.T) {
		h := newHarness(t)
		h.fake.JSON(http.MethodPost, "/api/auth/signup", http.StatusOK, loginResponse(t, "tenant"))
		browserID := sessions.NewBrowserID()

		rec := h.do(t, http.MethodPost, "/signup", browserID, form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/tenant/dashboard", rec.Header().Get("Location"))

		issued := browserIDFrom(t, rec)
		require.NotEqual(t, browserID, issued)
		role, _ := h.persisted(t, issued, sessions.KeyRole)
		require.Equal(t, "tenant", role)

		call, ok := h.fake.LastCall(http.MethodPost, "/api/auth/signup")
		require.True(t, ok)
		var sent map[string]any
		require.NoError(t, json.Unmarshal(call.Body, &sent))
		require.Equal(t, "0712345678", sent["phone"])
		require.Equal(t, "tenant", sent["role"])
		require.NotContains(t, sent, "confirm_password")
	})

	t.Run("mismatched passwords re-render the form", func(t *testing.T) {
		h := newHarness(t)
		bad := url.Values{}
		for k, v := range form {
			bad[k] = v
		}
		bad.Set("confirm_password", "Secret124")

		rec := h.do(t, http.MethodPost, "/signup", "", bad, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "passwords do not match")
		require.Contains(t, rec.Body.String(), `value="jane@example.com"`)
		require.Empty(t, h.fake.Calls())
	})

	t.Run("server rejection is shown", func(t *testing.T) {
		h := newHarness(t)
		h.fake.JSON(http.MethodPost, "/api/auth/signup", http.StatusConflict, map[string]any{
			"success": false,
			"message": "Email already registered",
		})

		rec := h.do(t, http.MethodPost, "/signup", "", form, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Email already registered")
	})
}

func TestCaretakerWaterBillSubmit(t *testing.T) {
	t.Run("readings must be numbers", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleCaretaker)

		form := url.Values{"tenant_id": {"u-5"}, "month": {"2026-09"}, "previous_reading": {"ten"}, "current_reading": {"20"}, "rate_per_unit": {"150"}}
		rec := h.do(t, http.MethodPost, "/caretaker/water-bills", browserID, form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/caretaker/water-bills?error=Meter+readings+and+rate+must+be+numbers", rec.Header().Get("Location"))
		require.Empty(t, h.fake.Calls())
	})

	t.Run("recorded bill is posted", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleCaretaker)
		h.fake.JSON(http.MethodPost, "/api/caretaker/water-bills", http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 31, "month": "2026-09", "amount": 1500},
		})

		form := url.Values{"tenant_id": {"u-5"}, "month": {"2026-09"}, "previous_reading": {"10"}, "current_reading": {"20"}, "rate_per_unit": {"150"}}
		rec := h.do(t, http.MethodPost, "/caretaker/water-bills", browserID, form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/caretaker/water-bills?success=Water+bill+recorded", rec.Header().Get("Location"))

		call, ok := h.fake.LastCall(http.MethodPost, "/api/caretaker/water-bills")
		require.True(t, ok)
		require.JSONEq(t, `{"tenant_id":"u-5","month":"2026-09","previous_reading":10,"current_reading":20,"rate_per_unit":150}`, string(call.Body))
	})
}

func TestCaretakerMaintenanceUpdate(t *testing.T) {
	t.Run("status and notes are patched", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleCaretaker)
		h.fake.JSON(http.MethodPatch, "/api/caretaker/maintenance/m-1", http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": "m-1", "title": "Leaking tap", "status": "in_progress"},
		})

		form := url.Values{"status": {"in_progress"}, "notes": {" Plumber booked "}}
		rec := h.do(t, http.MethodPost, "/caretaker/maintenance/m-1", browserID, form, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/caretaker/maintenance?success=Maintenance+request+updated", rec.Header().Get("Location"))

		call, ok := h.fake.LastCall(http.MethodPatch, "/api/caretaker/maintenance/m-1")
		require.True(t, ok)
		require.JSONEq(t, `{"status":"in_progress","notes":"Plumber booked"}`, string(call.Body))
	})

	t.Run("unknown status never reaches the API", func(t *testing.T) {
		h := newHarness(t)
		browserID := h.loginAs(t, users.RoleCaretaker)

		rec := h.do(t, http.MethodPost, "/caretaker/maintenance/m-1", browserID, url.Values{"status": {"done"}}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/caretaker/maintenance?error="))
		require.Empty(t, h.fake.Calls())
	})
}
