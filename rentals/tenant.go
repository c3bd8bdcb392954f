package rentals

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
	"golang.org/x/sync/errgroup"
)

var errPaymentPending = errors.New("payment still pending")

// TenantDashboard fetches the overview and every tenant record concurrently.
// The first failure cancels the remaining fetches.
func (s *Service) TenantDashboard(ctx context.Context) (*TenantDashboard, error) {
	var dash TenantDashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		overview, err := getOptional[TenantOverview](ctx, s.client, api.EndpointTenantDashboard)
		if overview != nil {
			dash.Overview = *overview
		}
		return err
	})
	g.Go(func() (err error) {
		dash.Lease, err = s.Lease(ctx)
		return err
	})
	g.Go(func() (err error) {
		dash.Payments, err = s.Payments(ctx)
		return err
	})
	g.Go(func() (err error) {
		dash.Deposit, err = s.Deposit(ctx)
		return err
	})
	g.Go(func() (err error) {
		dash.WaterBills, err = s.WaterBills(ctx)
		return err
	})
	g.Go(func() (err error) {
		dash.Maintenance, err = s.Maintenance(ctx)
		return err
	})
	g.Go(func() (err error) {
		dash.Vacate, err = s.VacateNotice(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

// Lease returns the tenant's lease, nil when none has been issued
func (s *Service) Lease(ctx context.Context) (*Lease, error) {
	return getOptional[Lease](ctx, s.client, api.EndpointTenantLease)
}

func (s *Service) SignLease(ctx context.Context, sig LeaseSignature) (*Lease, error) {
	if err := checked(sig); err != nil {
		return nil, err
	}
	return send[Lease](ctx, s.client, http.MethodPost, api.EndpointTenantLeaseSign, sig)
}

func (s *Service) Payments(ctx context.Context) ([]RentPayment, error) {
	return getList[RentPayment](ctx, s.client, api.EndpointTenantPayments)
}

// InitiatePayment starts a payment and returns it in its initial status
func (s *Service) InitiatePayment(ctx context.Context, req PaymentRequest) (*RentPayment, error) {
	if err := req.Check(); err != nil {
		return nil, invalid(err)
	}
	payment, err := send[RentPayment](ctx, s.client, http.MethodPost, api.EndpointTenantPayments, req)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errors.ErrMalformedResponse
	}
	return payment, nil
}

func (s *Service) PaymentStatus(ctx context.Context, id string) (*RentPayment, error) {
	payment, err := getItem[RentPayment](ctx, s.client, api.Path(api.EndpointTenantPaymentStatus, id))
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errors.ErrMalformedResponse
	}
	return payment, nil
}

// AwaitPayment polls the payment status until it is terminal or the poll
// policy is used up. A payment still pending after the last attempt is
// returned without error.
func (s *Service) AwaitPayment(ctx context.Context, id string) (*RentPayment, error) {
	var last *RentPayment
	err := api.Retry(ctx, s.poll, func(ctx context.Context) error {
		payment, err := s.PaymentStatus(ctx, id)
		if err != nil {
			if api.Retryable(err) {
				return err
			}
			return api.Permanent(err)
		}
		last = payment
		if !payment.Status.Terminal() {
			return errPaymentPending
		}
		return nil
	})
	if errors.Is(err, errPaymentPending) {
		return last, nil
	}
	if err != nil {
		return nil, err
	}
	return last, nil
}

// Deposit returns the deposit record, nil when none has been paid
func (s *Service) Deposit(ctx context.Context) (*DepositRecord, error) {
	return getOptional[DepositRecord](ctx, s.client, api.EndpointTenantDeposit)
}

func (s *Service) WaterBills(ctx context.Context) ([]WaterBill, error) {
	return getList[WaterBill](ctx, s.client, api.EndpointTenantWaterBills)
}

func (s *Service) Maintenance(ctx context.Context) ([]MaintenanceRequest, error) {
	return getList[MaintenanceRequest](ctx, s.client, api.EndpointTenantMaintenance)
}

func (s *Service) SubmitMaintenance(ctx context.Context, m MaintenanceSubmission) (*MaintenanceRequest, error) {
	if err := checked(m); err != nil {
		return nil, err
	}
	return send[MaintenanceRequest](ctx, s.client, http.MethodPost, api.EndpointTenantMaintenance, m)
}

// VacateNotice returns the tenant's notice, nil when none was given
func (s *Service) VacateNotice(ctx context.Context) (*VacateNotice, error) {
	return getOptional[VacateNotice](ctx, s.client, api.EndpointTenantVacate)
}

func (s *Service) SubmitVacate(ctx context.Context, req VacateRequest) (*VacateNotice, error) {
	if err := checked(req); err != nil {
		return nil, err
	}
	return send[VacateNotice](ctx, s.client, http.MethodPost, api.EndpointTenantVacate, req)
}
