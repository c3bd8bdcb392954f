package rentals_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/apitest"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
	"github.com/jrsteele09/go-rental-portal/rentals"
	"github.com/stretchr/testify/require"
)

var fastPoll = api.RetryPolicy{MaxAttempts: 4, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

func newService(t *testing.T) (*apitest.FakeAPI, *rentals.Service) {
	t.Helper()
	fake := apitest.New(t)
	svc := rentals.New(fake.Client().WithToken("t1"), rentals.WithPollPolicy(fastPoll))
	return fake, svc
}

func data(v any) map[string]any {
	return map[string]any{"success": true, "data": v}
}

func TestService_TenantDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("combines every record", func(t *testing.T) {
		fake, svc := newService(t)
		fake.JSON(http.MethodGet, api.EndpointTenantDashboard, http.StatusOK, data(map[string]any{
			"balance": 1500, "rent_due": 12000, "next_due_date": "2025-07-01",
		}))
		fake.JSON(http.MethodGet, api.EndpointTenantLease, http.StatusOK, data(map[string]any{
			"id": "l-1", "room_number": "A4", "monthly_rent": 12000, "status": "active", "start_date": "2025-01-01",
		}))
		fake.JSON(http.MethodGet, api.EndpointTenantPayments, http.StatusOK, data([]map[string]any{
			{"id": "p-1", "amount": 12000, "status": "completed", "paid_at": "2025-06-01T10:00:00Z"},
		}))
		fake.JSON(http.MethodGet, api.EndpointTenantDeposit, http.StatusNotFound, map[string]any{"message": "No deposit"})
		fake.JSON(http.MethodGet, api.EndpointTenantWaterBills, http.StatusOK, data([]map[string]any{}))
		fake.JSON(http.MethodGet, api.EndpointTenantMaintenance, http.StatusOK, data([]map[string]any{
			{"id": "m-1", "title": "Leaking tap", "status": "pending"},
		}))
		fake.JSON(http.MethodGet, api.EndpointTenantVacate, http.StatusOK, data(nil))

		dash, err := svc.TenantDashboard(ctx)
		require.NoError(t, err)
		require.Equal(t, rentals.Money(1500), dash.Overview.Balance)
		require.Equal(t, "01 Jul 2025", dash.Overview.NextDueDate.String())
		require.Equal(t, "l-1", dash.Lease.ID.String())
		require.Len(t, dash.Payments, 1)
		require.Nil(t, dash.Deposit)
		require.Nil(t, dash.Vacate)
		require.Len(t, dash.Maintenance, 1)
		require.True(t, dash.Maintenance[0].Open())
		require.False(t, dash.Empty())

		call, ok := fake.LastCall(http.MethodGet, api.EndpointTenantLease)
		require.True(t, ok)
		require.Equal(t, "Bearer t1", call.Authorization)
	})

	t.Run("any failure fails the dashboard", func(t *testing.T) {
		fake, svc := newService(t)
		fake.JSON(http.MethodGet, api.EndpointTenantPayments, http.StatusInternalServerError, map[string]any{"error": "Server Error"})

		_, err := svc.TenantDashboard(ctx)
		require.Error(t, err)
	})

	t.Run("malformed record is rejected", func(t *testing.T) {
		fake, svc := newService(t)
		fake.JSON(http.MethodGet, api.EndpointTenantLease, http.StatusOK, data(map[string]any{"room_number": "A4"}))

		_, err := svc.Lease(ctx)
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrMalformedResponse))
	})
}

func TestService_AwaitPayment(t *testing.T) {
	ctx := context.Background()
	statusPath := api.Path(api.EndpointTenantPaymentStatus, "p-9")

	t.Run("polls until terminal", func(t *testing.T) {
		fake, svc := newService(t)
		var calls atomic.Int32
		fake.Handle(http.MethodGet, statusPath, func(w http.ResponseWriter, r *http.Request) {
			status := "pending"
			if calls.Add(1) >= 3 {
				status = "completed"
			}
			apitest.WriteJSON(w, http.StatusOK, data(map[string]any{"id": "p-9", "amount": 100, "status": status}))
		})

		payment, err := svc.AwaitPayment(ctx, "p-9")
		require.NoError(t, err)
		require.Equal(t, rentals.PaymentCompleted, payment.Status)
		require.Equal(t, int32(3), calls.Load())
	})

	t.Run("still pending after the last attempt", func(t *testing.T) {
		fake, svc := newService(t)
		fake.JSON(http.MethodGet, statusPath, http.StatusOK, data(map[string]any{"id": "p-9", "amount": 100, "status": "pending"}))

		payment, err := svc.AwaitPayment(ctx, "p-9")
		require.NoError(t, err)
		require.Equal(t, rentals.PaymentPending, payment.Status)
		require.Equal(t, fastPoll.MaxAttempts, fake.CallCount(http.MethodGet, statusPath))
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		fake, svc := newService(t)
		fake.JSON(http.MethodGet, statusPath, http.StatusNotFound, map[string]any{"message": "Payment not found"})

		_, err := svc.AwaitPayment(ctx, "p-9")
		require.Error(t, err)
		require.Equal(t, "Payment not found", api.Message(err))
		require.Equal(t, 1, fake.CallCount(http.MethodGet, statusPath))
	})
}

func TestService_Forms(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid forms never reach the api", func(t *testing.T) {
		fake, svc := newService(t)

		_, err := svc.SignLease(ctx, rentals.LeaseSignature{SignatureName: "Jane"})
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrInvalid))

		_, err = svc.SubmitVacate(ctx, rentals.VacateRequest{MoveOutDate: "next week"})
		require.EqualError(t, err, "move out date must be a valid date")

		_, err = svc.InitiatePayment(ctx, rentals.PaymentRequest{Amount: 100, Method: "mpesa"})
		require.Equal(t, "phone is required for M-Pesa payments", api.Message(err))

		_, err = svc.RecordWaterBill(ctx, rentals.WaterBillEntry{
			TenantID: "u-1", Month: "2025-06", PreviousReading: 50, CurrentReading: 40, RatePerUnit: 100,
		})
		require.Error(t, err)

		require.Empty(t, fake.Calls())
	})

	t.Run("maintenance update patches the request", func(t *testing.T) {
		fake, svc := newService(t)
		path := api.Path(api.EndpointCaretakerMaintenanceUpdate, "m-1")
		fake.JSON(http.MethodPatch, path, http.StatusOK, data(map[string]any{
			"id": "m-1", "title": "Leaking tap", "status": "in_progress",
		}))

		updated, err := svc.UpdateMaintenance(ctx, "m-1", rentals.MaintenanceUpdate{Status: rentals.MaintenanceInProgress})
		require.NoError(t, err)
		require.Equal(t, rentals.MaintenanceInProgress, updated.Status)

		call, _ := fake.LastCall(http.MethodPatch, path)
		require.JSONEq(t, `{"status":"in_progress"}`, string(call.Body))
	})

	t.Run("success false on 200 is an error", func(t *testing.T) {
		fake, svc := newService(t)
		fake.JSON(http.MethodPost, api.EndpointTenantVacate, http.StatusOK, map[string]any{
			"success": false, "message": "Notice already submitted",
		})

		_, err := svc.SubmitVacate(ctx, rentals.VacateRequest{MoveOutDate: "2025-08-31"})
		require.Error(t, err)
		require.Equal(t, "Notice already submitted", api.Message(err))
	})
}

func TestService_Admin(t *testing.T) {
	ctx := context.Background()
	fake, svc := newService(t)
	fake.JSON(http.MethodGet, api.EndpointAdminTenants, http.StatusOK, data([]map[string]any{
		{"id": "u-1", "name": "Jane", "email": "jane@example.com", "balance": 0},
		{"id": "u-2", "name": "Tom", "email": "tom@example.com", "balance": 4500},
	}))
	fake.JSON(http.MethodGet, api.Path(api.EndpointAdminTenant, "u-2"), http.StatusOK, data(map[string]any{
		"id": "u-2", "name": "Tom", "email": "tom@example.com",
		"payments": []map[string]any{{"id": "p-1", "amount": 4500, "status": "pending"}},
	}))

	tenants, err := svc.Tenants(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 2)

	detail, err := svc.Tenant(ctx, "u-2")
	require.NoError(t, err)
	require.Equal(t, "Tom", detail.Name)
	require.Len(t, detail.Payments, 1)

	_, err = svc.Tenant(ctx, "missing")
	require.True(t, errors.Is(err, errors.ErrNotFound))
}
