package rentals

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
)

func (s *Service) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	dash, err := getItem[AdminDashboard](ctx, s.client, api.EndpointAdminDashboard)
	if err != nil {
		return nil, err
	}
	if dash == nil {
		return &AdminDashboard{}, nil
	}
	return dash, nil
}

func (s *Service) Tenants(ctx context.Context) ([]TenantSummary, error) {
	return getList[TenantSummary](ctx, s.client, api.EndpointAdminTenants)
}

// Tenant returns one tenant's detail, errors.ErrNotFound when the API has no such tenant
func (s *Service) Tenant(ctx context.Context, id string) (*TenantDetail, error) {
	detail, err := getOptional[TenantDetail](ctx, s.client, api.Path(api.EndpointAdminTenant, id))
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "tenant %s", id)
	}
	return detail, nil
}

func (s *Service) DecideVacate(ctx context.Context, id string, decision VacateDecision) (*VacateNotice, error) {
	if err := checked(decision); err != nil {
		return nil, err
	}
	return send[VacateNotice](ctx, s.client, http.MethodPut, api.Path(api.EndpointAdminVacateDecision, id), decision)
}
