package services

import (
	"context"

	"github.com/capstone-insurance/portal/internal/models"
)

const dashboardStatsPath string = "/admin/dashboard/stats"

type DashboardService struct {
	api API
}

func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	output := models.DashboardStats{}
	err := s.api.Get(ctx, dashboardStatsPath, nil, &output)
	return output, err
}
