package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-rental-portal/internal/utils"
	"github.com/jrsteele09/go-rental-portal/users"
)

// ProfileHandler re-reads the profile from the API before showing it
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := providerFrom(r.Context())
		role := p.Role()

		p.RefreshUser(r.Context())
		if !p.IsAuthenticated() {
			s.renderExpired(w, r, role)
			return
		}

		page := s.newPage(r, "My profile", "profile")
		page.View = View{State: ViewData, Data: page.Session}
		s.render(w, r, "profile.html", http.StatusOK, page)
	}
}

// ProfileUpdateHandler sends only the fields that changed
func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		p := providerFrom(r.Context())
		role := p.Role()
		current := p.Session()

		update := users.ProfileUpdate{
			Name:     utils.Changed(strings.TrimSpace(r.FormValue("name")), current.Name),
			Email:    utils.Changed(strings.TrimSpace(r.FormValue("email")), current.Email),
			Phone:    utils.Changed(users.NormalizePhone(r.FormValue("phone")), users.NormalizePhone(current.Phone)),
			IDNumber: utils.Changed(strings.TrimSpace(r.FormValue("id_number")), current.IDNumber),
		}
		if update.Empty() {
			redirectWithNotice(w, r, RouteProfile, "Nothing to update")
			return
		}

		result := p.UpdateProfile(r.Context(), update)
		if !result.Success {
			if !p.IsAuthenticated() {
				s.renderExpired(w, r, role)
				return
			}
			redirectWithError(w, r, RouteProfile, result.Error)
			return
		}
		redirectWithNotice(w, r, RouteProfile, "Profile updated")
	}
}
