package rentals

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
)

func (s *Service) CaretakerDashboard(ctx context.Context) (*CaretakerDashboard, error) {
	dash, err := getItem[CaretakerDashboard](ctx, s.client, api.EndpointCaretakerDashboard)
	if err != nil {
		return nil, err
	}
	if dash == nil {
		return &CaretakerDashboard{}, nil
	}
	return dash, nil
}

func (s *Service) AvailableRooms(ctx context.Context) ([]Room, error) {
	return getList[Room](ctx, s.client, api.EndpointCaretakerRoomsAvailable)
}

func (s *Service) CaretakerMaintenance(ctx context.Context) ([]MaintenanceRequest, error) {
	return getList[MaintenanceRequest](ctx, s.client, api.EndpointCaretakerMaintenance)
}

func (s *Service) UpdateMaintenance(ctx context.Context, id string, update MaintenanceUpdate) (*MaintenanceRequest, error) {
	if id == "" {
		return nil, errors.Wrapf(errors.ErrInvalid, "maintenance request id is required")
	}
	if err := checked(update); err != nil {
		return nil, err
	}
	return send[MaintenanceRequest](ctx, s.client, http.MethodPatch, api.Path(api.EndpointCaretakerMaintenanceUpdate, id), update)
}

func (s *Service) CaretakerWaterBills(ctx context.Context) ([]WaterBill, error) {
	return getList[WaterBill](ctx, s.client, api.EndpointCaretakerWaterBills)
}

func (s *Service) RecordWaterBill(ctx context.Context, entry WaterBillEntry) (*WaterBill, error) {
	if err := checked(entry); err != nil {
		return nil, err
	}
	return send[WaterBill](ctx, s.client, http.MethodPost, api.EndpointCaretakerWaterBills, entry)
}
