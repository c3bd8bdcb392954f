package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-rental-portal/sessions"
	"github.com/rs/zerolog/hlog"
)

// browserCookieName identifies the browser context a session belongs to
const browserCookieName = "portal_browser_id"

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyProvider stores the browser's *sessions.Provider
const ContextKeyProvider ContextKey = "session_provider"

// SetBrowserCookie issues the browser id cookie, replacing one already set on
// this response.
func (s *Server) SetBrowserCookie(w http.ResponseWriter, r *http.Request, browserID string) {
	header := w.Header()
	cookies := header.Values("Set-Cookie")
	header.Del("Set-Cookie")
	for _, c := range cookies {
		if !strings.HasPrefix(c, browserCookieName+"=") {
			header.Add("Set-Cookie", c)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     browserCookieName,
		Value:    browserID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.cookieMaxAge,
	})
}

// BrowserSessionMiddleware makes sure every browser carries an id cookie and
// puts its initialised session provider on the request context.
func (s *Server) BrowserSessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var browserID string
		if cookie, err := r.Cookie(browserCookieName); err == nil && cookie.Value != "" {
			browserID = cookie.Value
		} else {
			browserID = sessions.NewBrowserID()
		}
		// Refresh on every request so MaxAge slides with activity
		s.SetBrowserCookie(w, r, browserID)

		provider, err := s.sessions.Provider(r.Context(), browserID)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("browser_id", browserID).Msg("failed to load session")
			http.Error(w, "Session service unavailable", http.StatusServiceUnavailable)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyProvider, provider)
		next(w, r.WithContext(ctx))
	}
}

// rotateBrowserID moves the session to a fresh browser id and reissues the
// cookie. Called whenever the logged in identity changes.
func (s *Server) rotateBrowserID(w http.ResponseWriter, r *http.Request) error {
	next, err := s.sessions.Rotate(r.Context(), providerFrom(r.Context()).BrowserID())
	if err != nil {
		return err
	}
	s.SetBrowserCookie(w, r, next)
	return nil
}

// providerFrom returns the provider set by BrowserSessionMiddleware
func providerFrom(ctx context.Context) *sessions.Provider {
	p, _ := ctx.Value(ContextKeyProvider).(*sessions.Provider)
	return p
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, path+"?error="+url.QueryEscape(errorMsg))
}

// redirectWithNotice redirects and shows a confirmation banner on the target page
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	redirectSuccess(w, r, path+"?success="+url.QueryEscape(notice))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
