package server

import (
	"net/http"

	"github.com/jrsteele09/go-rental-portal/users"
	"github.com/rs/zerolog/hlog"
)

// RequireRole gates a page on the session role. Visitors without a session
// go to the login page of the first allowed role; sessions with another role
// go to the unauthorized page. The remote API still enforces access itself.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			p := providerFrom(r.Context())
			if p == nil || !p.IsAuthenticated() {
				redirectSuccess(w, r, loginRouteFor(roles[0]))
				return
			}
			if !p.HasRole(roles...) {
				hlog.FromRequest(r).Debug().
					Str("role", p.Role().String()).
					Str("path", r.URL.Path).
					Msg("role not permitted")
				redirectSuccess(w, r, RouteUnauthorized)
				return
			}
			next(w, r)
		}
	}
}
