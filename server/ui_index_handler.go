package server

import (
	"net/http"
)

// IndexHandler renders the landing page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := s.newPage(r, "Welcome", "home")
		if page.Session != nil {
			page.Redirect = dashboardRouteFor(page.Session.Role)
		}
		s.render(w, r, "index.html", http.StatusOK, page)
	}
}
