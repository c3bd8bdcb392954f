package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-rental-portal/rentals"
)

func (s *Server) TenantDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dash, err := s.rentalService(r).TenantDashboard(r.Context())
		s.renderView(w, r, "tenant_dashboard.html", s.newPage(r, "Dashboard", "dashboard"), dash, dash == nil || dash.Empty(), err)
	}
}

func (s *Server) TenantLeaseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lease, err := s.rentalService(r).Lease(r.Context())
		s.renderView(w, r, "tenant_lease.html", s.newPage(r, "My lease", "lease"), lease, lease == nil, err)
	}
}

func (s *Server) TenantLeaseSignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		sig := rentals.LeaseSignature{
			AcceptTerms:   r.FormValue("accept_terms") != "",
			SignatureName: strings.TrimSpace(r.FormValue("signature_name")),
		}
		if !sig.AcceptTerms {
			redirectWithError(w, r, RouteTenantLease, "Please accept the lease terms")
			return
		}
		if _, err := s.rentalService(r).SignLease(r.Context(), sig); err != nil {
			s.actionFailed(w, r, RouteTenantLease, err)
			return
		}
		redirectWithNotice(w, r, RouteTenantLease, "Lease signed")
	}
}

func (s *Server) TenantPaymentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payments, err := s.rentalService(r).Payments(r.Context())
		page := s.newPage(r, "Payments", "payments")
		if page.Session != nil {
			page.Form["phone"] = page.Session.Phone
		}
		s.renderView(w, r, "tenant_payments.html", page, payments, len(payments) == 0, err)
	}
}

// TenantPaymentSubmitHandler starts a payment and shows its status page
func (s *Server) TenantPaymentSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		amount, ok := parseAmount(r.FormValue("amount"))
		if !ok {
			redirectWithError(w, r, RouteTenantPayments, "Please enter a valid amount")
			return
		}
		req := rentals.PaymentRequest{
			Amount: rentals.Money(amount),
			Method: r.FormValue("method"),
			Phone:  strings.TrimSpace(r.FormValue("phone")),
			Month:  r.FormValue("month"),
		}
		payment, err := s.rentalService(r).InitiatePayment(r.Context(), req)
		if err != nil {
			s.actionFailed(w, r, RouteTenantPayments, err)
			return
		}
		redirectSuccess(w, r, paymentStatusRoute(payment.ID.String()))
	}
}

// TenantPaymentStatusHandler polls the payment until it settles or the poll
// policy runs out, then shows the latest status.
func (s *Server) TenantPaymentStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		payment, err := s.rentalService(r).AwaitPayment(r.Context(), id)
		page := s.newPage(r, "Payment status", "payments")
		s.renderView(w, r, "tenant_payment_status.html", page, payment, payment == nil, err)
	}
}

func (s *Server) TenantMaintenanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := s.rentalService(r).Maintenance(r.Context())
		page := s.newPage(r, "Maintenance", "maintenance")
		page.Extra = rentals.Priorities
		s.renderView(w, r, "tenant_maintenance.html", page, requests, len(requests) == 0, err)
	}
}

func (s *Server) TenantMaintenanceSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		m := rentals.MaintenanceSubmission{
			Title:       strings.TrimSpace(r.FormValue("title")),
			Description: strings.TrimSpace(r.FormValue("description")),
			Priority:    rentals.Priority(r.FormValue("priority")),
		}
		if _, err := s.rentalService(r).SubmitMaintenance(r.Context(), m); err != nil {
			s.actionFailed(w, r, RouteTenantMaintenance, err)
			return
		}
		redirectWithNotice(w, r, RouteTenantMaintenance, "Maintenance request submitted")
	}
}

func (s *Server) TenantVacateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice, err := s.rentalService(r).VacateNotice(r.Context())
		s.renderView(w, r, "tenant_vacate.html", s.newPage(r, "Vacate notice", "vacate"), notice, notice == nil, err)
	}
}

func (s *Server) TenantVacateSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		req := rentals.VacateRequest{
			MoveOutDate: r.FormValue("move_out_date"),
			Reason:      strings.TrimSpace(r.FormValue("reason")),
		}
		if _, err := s.rentalService(r).SubmitVacate(r.Context(), req); err != nil {
			s.actionFailed(w, r, RouteTenantVacate, err)
			return
		}
		redirectWithNotice(w, r, RouteTenantVacate, "Vacate notice submitted")
	}
}
