package server

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-rental-portal/internal/errors"
	"github.com/jrsteele09/go-rental-portal/rentals"
)

func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dash, err := s.rentalService(r).AdminDashboard(r.Context())
		empty := dash == nil || (dash.Stats == rentals.AdminStats{} && len(dash.RecentPayments) == 0 && len(dash.PendingVacates) == 0)
		s.renderView(w, r, "admin_dashboard.html", s.newPage(r, "Dashboard", "dashboard"), dash, empty, err)
	}
}

func (s *Server) AdminTenantsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenants, err := s.rentalService(r).Tenants(r.Context())
		s.renderView(w, r, "admin_tenants.html", s.newPage(r, "Tenants", "tenants"), tenants, len(tenants) == 0, err)
	}
}

// AdminTenantHandler shows one tenant, or a 404 page when the API does not know the id
func (s *Server) AdminTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := s.rentalService(r).Tenant(r.Context(), r.PathValue("id"))
		page := s.newPage(r, "Tenant", "tenants")
		if stdErrors.Is(err, errors.ErrNotFound) {
			page.View = View{State: ViewNoData}
			s.render(w, r, "admin_tenant.html", http.StatusNotFound, page)
			return
		}
		if detail != nil {
			page.Title = detail.Name
		}
		s.renderView(w, r, "admin_tenant.html", page, detail, detail == nil, err)
	}
}

// AdminVacateDecisionHandler approves or rejects a vacate notice
func (s *Server) AdminVacateDecisionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		returnTo := safeReturn(r.FormValue("return_to"), "/admin/", RouteAdminDashboard)
		decision := rentals.VacateDecision{
			Status: rentals.VacateStatus(r.FormValue("status")),
			Notes:  strings.TrimSpace(r.FormValue("notes")),
		}
		if _, err := s.rentalService(r).DecideVacate(r.Context(), r.PathValue("id"), decision); err != nil {
			s.actionFailed(w, r, returnTo, err)
			return
		}
		redirectWithNotice(w, r, returnTo, "Vacate notice "+string(decision.Status))
	}
}
