package api

import (
	"net/url"
	"strings"
)

// Endpoint path table for the remote property API
const (
	// Auth
	EndpointLogin   = "/api/auth/login"
	EndpointSignup  = "/api/auth/signup"
	EndpointLogout  = "/api/auth/logout"
	EndpointProfile = "/api/auth/profile"

	// Tenant
	EndpointTenantDashboard     = "/api/tenant/dashboard"
	EndpointTenantLease         = "/api/tenant/lease"
	EndpointTenantLeaseSign     = "/api/tenant/lease/sign"
	EndpointTenantPayments      = "/api/tenant/payments"
	EndpointTenantPaymentStatus = "/api/tenant/payments/:id/status"
	EndpointTenantDeposit       = "/api/tenant/deposit"
	EndpointTenantWaterBills    = "/api/tenant/water-bills"
	EndpointTenantMaintenance   = "/api/tenant/maintenance"
	EndpointTenantVacate        = "/api/tenant/vacate"

	// Caretaker
	EndpointCaretakerDashboard         = "/api/caretaker/dashboard"
	EndpointCaretakerRoomsAvailable    = "/api/caretaker/rooms/available"
	EndpointCaretakerMaintenance       = "/api/caretaker/maintenance"
	EndpointCaretakerMaintenanceUpdate = "/api/caretaker/maintenance/:id"
	EndpointCaretakerWaterBills        = "/api/caretaker/water-bills"

	// Admin
	EndpointAdminDashboard      = "/api/admin/dashboard"
	EndpointAdminTenants        = "/api/admin/tenants"
	EndpointAdminTenant         = "/api/admin/tenant/:id"
	EndpointAdminVacateDecision = "/api/admin/vacate/:id"
)

// Path fills the ":name" segments of an endpoint template, in order, with the
// escaped params. Surplus params are ignored and missing ones leave the
// segment untouched.
func Path(template string, params ...string) string {
	segments := strings.Split(template, "/")
	next := 0
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") || next >= len(params) {
			continue
		}
		segments[i] = url.PathEscape(params[next])
		next++
	}
	return strings.Join(segments, "/")
}
