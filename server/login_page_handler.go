package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-rental-portal/users"
	"github.com/rs/zerolog/hlog"
)

// LoginPageUIHandler displays the login page for one role
func (s *Server) LoginPageUIHandler(role users.RoleType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := providerFrom(r.Context())
		if p.IsAuthenticated() {
			redirectSuccess(w, r, dashboardRouteFor(p.Role()))
			return
		}
		s.renderLogin(w, r, role, r.URL.Query().Get("email"), r.URL.Query().Get("error"))
	}
}

// LoginSubmissionHandler processes the login form and sends the user to
// their dashboard. A failure re-renders the form with the server's message.
func (s *Server) LoginSubmissionHandler(role users.RoleType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		if email == "" || password == "" {
			s.renderLogin(w, r, role, email, "Email and password are required")
			return
		}

		p := providerFrom(r.Context())
		result := p.Login(r.Context(), email, password)
		if !result.Success {
			hlog.FromRequest(r).Info().Str("role", role.String()).Msg("login failed")
			s.renderLogin(w, r, role, email, result.Error)
			return
		}
		if err := s.rotateBrowserID(w, r); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to rotate browser id")
			p.Logout(r.Context())
			s.renderLogin(w, r, role, email, msgSessionSave)
			return
		}

		redirectSuccess(w, r, dashboardRouteFor(result.User.Role))
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, role users.RoleType, email, errorMsg string) {
	page := s.newPage(r, titleCase(role)+" login", "login")
	page.Role = role
	page.Error = errorMsg
	page.Form["email"] = email
	page.Path = loginRouteFor(role)
	s.render(w, r, "login.html", http.StatusOK, page)
}

// LogoutHandler clears the session locally and returns to the role's login page
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := providerFrom(r.Context())
		target := RouteIndex
		if p.IsAuthenticated() {
			target = loginRouteFor(p.Role())
		}
		p.Logout(r.Context())
		if err := s.rotateBrowserID(w, r); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("failed to rotate browser id")
		}
		redirectWithNotice(w, r, target, "You have been logged out")
	}
}

// UnauthorizedHandler is shown when a session's role may not open a page
func (s *Server) UnauthorizedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := s.newPage(r, "Access denied", "")
		if page.Session != nil {
			page.Redirect = dashboardRouteFor(page.Session.Role)
		}
		s.render(w, r, "unauthorized.html", http.StatusForbidden, page)
	}
}
