package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/rs/zerolog/hlog"
)

// renderView resolves the page's view from one fetch and renders it. A 401
// from the API shows the session expired page instead.
func (s *Server) renderView(w http.ResponseWriter, r *http.Request, tmpl string, page PageData, data any, empty bool, err error) {
	if s.sessionExpired(w, r, err) {
		return
	}
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("kind", api.KindOf(err).String()).Msg("fetch failed")
	}
	page.View = resolveView(data, empty, err)
	s.render(w, r, tmpl, http.StatusOK, page)
}

// actionFailed reports a failed form submission back on the page it came from
func (s *Server) actionFailed(w http.ResponseWriter, r *http.Request, returnTo string, err error) {
	if s.sessionExpired(w, r, err) {
		return
	}
	hlog.FromRequest(r).Info().Err(err).Str("path", r.URL.Path).Msg("action failed")
	redirectWithError(w, r, returnTo, api.Message(err))
}

func parseAmount(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// safeReturn only allows returning to a local path under prefix
func safeReturn(target, prefix, fallback string) string {
	if strings.HasPrefix(target, prefix) && !strings.HasPrefix(target, "//") && !strings.Contains(target, "\\") {
		return target
	}
	return fallback
}
