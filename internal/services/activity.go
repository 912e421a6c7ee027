package services

import (
	"context"

	"github.com/capstone-insurance/portal/internal/models"
)

const activityLogsPath string = "/admin/activity-logs"

type ActivityService struct {
	api API
}

func (s *ActivityService) List(ctx context.Context, page int) (models.Page[models.ActivityLog], error) {
	output := models.Page[models.ActivityLog]{}
	err := s.api.Get(ctx, activityLogsPath, pageQuery(page), &output)
	return output, err
}
