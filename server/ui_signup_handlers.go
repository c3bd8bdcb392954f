package server

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-rental-portal/sessions"
	"github.com/jrsteele09/go-rental-portal/users"
	"github.com/rs/zerolog/hlog"
)

// ValidatePasswordHandler validates password strength for live form feedback
func (s *Server) ValidatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		password := r.FormValue("password")
		w.Header().Set("Content-Type", contentTypeHTML)

		if password == "" {
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := users.ValidatePasswordStrength(password); err != nil {
			w.Header().Set("HX-Trigger", fmt.Sprintf(`{"passwordInvalid": %q}`, err.Error()))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `<span class="text-danger">%s</span>`, html.EscapeString(err.Error()))
			return
		}

		w.Header().Set("HX-Trigger", `{"passwordValid": ""}`)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `<span class="text-success">Strong password</span>`)
	}
}

// SignupGetHandler renders the registration form
func (s *Server) SignupGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := providerFrom(r.Context())
		if p.IsAuthenticated() {
			redirectSuccess(w, r, dashboardRouteFor(p.Role()))
			return
		}
		page := s.newPage(r, "Create an account", "signup")
		page.Form["role"] = users.RoleTenant.String()
		s.render(w, r, "signup.html", http.StatusOK, page)
	}
}

// SignupPostHandler registers the account and logs it in
func (s *Server) SignupPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := users.SignupForm{
			Name:            strings.TrimSpace(r.FormValue("name")),
			Email:           strings.TrimSpace(r.FormValue("email")),
			Phone:           users.NormalizePhone(r.FormValue("phone")),
			IDNumber:        strings.TrimSpace(r.FormValue("id_number")),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
			Role:            users.RoleType(r.FormValue("role")),
		}
		if form.Role == "" {
			form.Role = users.RoleTenant
		}

		p := providerFrom(r.Context())
		result := p.Signup(r.Context(), form)
		if result.Success {
			if err := s.rotateBrowserID(w, r); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("failed to rotate browser id")
				p.Logout(r.Context())
				result = sessions.Result{Error: msgSessionSave}
			}
		}
		if !result.Success {
			page := s.newPage(r, "Create an account", "signup")
			page.Error = result.Error
			page.Form = map[string]string{
				"name":      form.Name,
				"email":     form.Email,
				"phone":     form.Phone,
				"id_number": form.IDNumber,
				"role":      form.Role.String(),
			}
			s.render(w, r, "signup.html", http.StatusOK, page)
			return
		}

		redirectSuccess(w, r, dashboardRouteFor(result.User.Role))
	}
}
