package server

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/go-rental-portal/users"
)

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex        = "/"
	RouteUnauthorized = "/unauthorized"
	RouteProfile      = "/profile"
	RouteHealth       = "/healthz"
	RouteMetrics      = "/metrics"

	// Auth Routes
	RouteTenantLogin    = "/tenant-login"
	RouteCaretakerLogin = "/caretaker-login"
	RouteAdminLogin     = "/admin-login"
	RouteSignup         = "/signup"
	RouteLogout         = "/logout"

	// API Routes
	RouteAPIValidatePassword = "/api/validate-password"

	// Tenant Routes
	RouteTenantDashboard     = "/tenant/dashboard"
	RouteTenantLease         = "/tenant/lease"
	RouteTenantLeaseSign     = "/tenant/lease/sign"
	RouteTenantPayments      = "/tenant/payments"
	RouteTenantPaymentStatus = "/tenant/payments/{id}/status"
	RouteTenantMaintenance   = "/tenant/maintenance"
	RouteTenantVacate        = "/tenant/vacate"

	// Caretaker Routes
	RouteCaretakerDashboard         = "/caretaker/dashboard"
	RouteCaretakerRooms             = "/caretaker/rooms"
	RouteCaretakerMaintenance       = "/caretaker/maintenance"
	RouteCaretakerMaintenanceUpdate = "/caretaker/maintenance/{id}"
	RouteCaretakerWaterBills        = "/caretaker/water-bills"

	// Admin Routes
	RouteAdminDashboard = "/admin/dashboard"
	RouteAdminTenants   = "/admin/tenants"
	RouteAdminTenant    = "/admin/tenant/{id}"
	RouteAdminVacate    = "/admin/vacate/{id}"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)

// loginRouteFor returns the login page for a role
func loginRouteFor(role users.RoleType) string {
	switch role {
	case users.RoleCaretaker:
		return RouteCaretakerLogin
	case users.RoleAdmin:
		return RouteAdminLogin
	default:
		return RouteTenantLogin
	}
}

// dashboardRouteFor returns the landing page after login for a role
func dashboardRouteFor(role users.RoleType) string {
	switch role {
	case users.RoleCaretaker:
		return RouteCaretakerDashboard
	case users.RoleAdmin:
		return RouteAdminDashboard
	case users.RoleTenant:
		return RouteTenantDashboard
	default:
		return RouteIndex
	}
}

// routeWithID fills the {id} segment of a route pattern
func routeWithID(pattern, id string) string {
	return strings.Replace(pattern, "{id}", url.PathEscape(id), 1)
}

func paymentStatusRoute(id string) string {
	return routeWithID(RouteTenantPaymentStatus, id)
}
