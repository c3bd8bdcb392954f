package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-rental-portal/users"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteUnauthorized, ChainMiddleware(s.UnauthorizedHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	for _, role := range users.Roles {
		route := loginRouteFor(role)
		s.RegisterRouteHandler("GET "+route, ChainMiddleware(s.LoginPageUIHandler(role), s.HTMLMiddleWare()...))
		s.RegisterRouteHandler("POST "+route, ChainMiddleware(s.LoginSubmissionHandler(role), s.HTMLMiddleWare()...))
	}
	s.RegisterRouteHandler("GET "+RouteSignup, ChainMiddleware(s.SignupGetHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupPostHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Profile (any role)
	anyRole := s.RequireRole(users.Roles...)
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.HTMLMiddleWare(anyRole)...))
	s.RegisterRouteHandler("POST "+RouteProfile, ChainMiddleware(s.ProfileUpdateHandler(), s.HTMLMiddleWare(anyRole)...))

	// Tenant routes
	tenant := s.RequireRole(users.RoleTenant)
	s.RegisterRouteHandler("GET "+RouteTenantDashboard, ChainMiddleware(s.TenantDashboardHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("GET "+RouteTenantLease, ChainMiddleware(s.TenantLeaseHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("POST "+RouteTenantLeaseSign, ChainMiddleware(s.TenantLeaseSignHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("GET "+RouteTenantPayments, ChainMiddleware(s.TenantPaymentsHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("POST "+RouteTenantPayments, ChainMiddleware(s.TenantPaymentSubmitHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("GET "+RouteTenantPaymentStatus, ChainMiddleware(s.TenantPaymentStatusHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("GET "+RouteTenantMaintenance, ChainMiddleware(s.TenantMaintenanceHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("POST "+RouteTenantMaintenance, ChainMiddleware(s.TenantMaintenanceSubmitHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("GET "+RouteTenantVacate, ChainMiddleware(s.TenantVacateHandler(), s.HTMLMiddleWare(tenant)...))
	s.RegisterRouteHandler("POST "+RouteTenantVacate, ChainMiddleware(s.TenantVacateSubmitHandler(), s.HTMLMiddleWare(tenant)...))

	// Caretaker routes
	caretaker := s.RequireRole(users.RoleCaretaker)
	s.RegisterRouteHandler("GET "+RouteCaretakerDashboard, ChainMiddleware(s.CaretakerDashboardHandler(), s.HTMLMiddleWare(caretaker)...))
	s.RegisterRouteHandler("GET "+RouteCaretakerRooms, ChainMiddleware(s.CaretakerRoomsHandler(), s.HTMLMiddleWare(caretaker)...))
	s.RegisterRouteHandler("GET "+RouteCaretakerMaintenance, ChainMiddleware(s.CaretakerMaintenanceHandler(), s.HTMLMiddleWare(caretaker)...))
	s.RegisterRouteHandler("POST "+RouteCaretakerMaintenanceUpdate, ChainMiddleware(s.CaretakerMaintenanceUpdateHandler(), s.HTMLMiddleWare(caretaker)...))
	s.RegisterRouteHandler("GET "+RouteCaretakerWaterBills, ChainMiddleware(s.CaretakerWaterBillsHandler(), s.HTMLMiddleWare(caretaker)...))
	s.RegisterRouteHandler("POST "+RouteCaretakerWaterBills, ChainMiddleware(s.CaretakerWaterBillSubmitHandler(), s.HTMLMiddleWare(caretaker)...))

	// Admin routes
	admin := s.RequireRole(users.RoleAdmin)
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleWare(admin)...))
	s.RegisterRouteHandler("GET "+RouteAdminTenants, ChainMiddleware(s.AdminTenantsListHandler(), s.HTMLMiddleWare(admin)...))
	s.RegisterRouteHandler("GET "+RouteAdminTenant, ChainMiddleware(s.AdminTenantHandler(), s.HTMLMiddleWare(admin)...))
	s.RegisterRouteHandler("POST "+RouteAdminVacate, ChainMiddleware(s.AdminVacateDecisionHandler(), s.HTMLMiddleWare(admin)...))

	// API routes
	s.RegisterRouteHandler("POST "+RouteAPIValidatePassword, ChainMiddleware(s.ValidatePasswordHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	if s.metrics != nil {
		s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
	}

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			s.logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

// HealthHandler reports liveness for load balancers
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
