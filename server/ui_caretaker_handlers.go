package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-rental-portal/rentals"
)

func (s *Server) CaretakerDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dash, err := s.rentalService(r).CaretakerDashboard(r.Context())
		empty := dash == nil || (dash.Stats == rentals.CaretakerStats{} && len(dash.RecentMaintenance) == 0)
		s.renderView(w, r, "caretaker_dashboard.html", s.newPage(r, "Dashboard", "dashboard"), dash, empty, err)
	}
}

func (s *Server) CaretakerRoomsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := s.rentalService(r).AvailableRooms(r.Context())
		s.renderView(w, r, "caretaker_rooms.html", s.newPage(r, "Available rooms", "rooms"), rooms, len(rooms) == 0, err)
	}
}

func (s *Server) CaretakerMaintenanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := s.rentalService(r).CaretakerMaintenance(r.Context())
		page := s.newPage(r, "Maintenance", "maintenance")
		page.Extra = rentals.MaintenanceStatuses
		s.renderView(w, r, "caretaker_maintenance.html", page, requests, len(requests) == 0, err)
	}
}

// CaretakerMaintenanceUpdateHandler changes the status of one request
func (s *Server) CaretakerMaintenanceUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		update := rentals.MaintenanceUpdate{
			Status: rentals.MaintenanceStatus(r.FormValue("status")),
			Notes:  strings.TrimSpace(r.FormValue("notes")),
		}
		if _, err := s.rentalService(r).UpdateMaintenance(r.Context(), r.PathValue("id"), update); err != nil {
			s.actionFailed(w, r, RouteCaretakerMaintenance, err)
			return
		}
		redirectWithNotice(w, r, RouteCaretakerMaintenance, "Maintenance request updated")
	}
}

func (s *Server) CaretakerWaterBillsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bills, err := s.rentalService(r).CaretakerWaterBills(r.Context())
		s.renderView(w, r, "caretaker_water_bills.html", s.newPage(r, "Water bills", "water-bills"), bills, len(bills) == 0, err)
	}
}

func (s *Server) CaretakerWaterBillSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		previous, okPrev := parseAmount(r.FormValue("previous_reading"))
		current, okCur := parseAmount(r.FormValue("current_reading"))
		rate, okRate := parseAmount(r.FormValue("rate_per_unit"))
		if !okPrev || !okCur || !okRate {
			redirectWithError(w, r, RouteCaretakerWaterBills, "Meter readings and rate must be numbers")
			return
		}
		entry := rentals.WaterBillEntry{
			TenantID:        strings.TrimSpace(r.FormValue("tenant_id")),
			Month:           r.FormValue("month"),
			PreviousReading: previous,
			CurrentReading:  current,
			RatePerUnit:     rentals.Money(rate),
		}
		if _, err := s.rentalService(r).RecordWaterBill(r.Context(), entry); err != nil {
			s.actionFailed(w, r, RouteCaretakerWaterBills, err)
			return
		}
		redirectWithNotice(w, r, RouteCaretakerWaterBills, "Water bill recorded")
	}
}
