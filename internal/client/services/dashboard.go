package services

import (
	"context"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
)

type DashboardAPI interface {
	Health(ctx context.Context) (models.Health, error)
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	VehicleReport(ctx context.Context, id int64) (models.VehicleReport, error)
}

// DashboardService serves the overview and report screens.
type DashboardService interface {
	Health(ctx context.Context) (models.Health, error)
	Stats(ctx context.Context) (models.DashboardStats, error)
	Report(ctx context.Context, vehicleID int64) (models.VehicleReport, error)
}

type dashboardService struct {
	api DashboardAPI
	guard
}

func NewDashboardService(a DashboardAPI, inv Invalidator) DashboardService {
	return &dashboardService{api: a, guard: guard{inv: inv}}
}

func (s *dashboardService) Health(ctx context.Context) (models.Health, error) {
	return s.api.Health(ctx)
}

func (s *dashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	st, err := s.api.DashboardStats(ctx)
	return st, s.check(ctx, err)
}

func (s *dashboardService) Report(ctx context.Context, vehicleID int64) (models.VehicleReport, error) {
	r, err := s.api.VehicleReport(ctx, vehicleID)
	return r, s.check(ctx, err)
}
