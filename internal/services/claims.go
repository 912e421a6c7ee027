package services

import (
	"context"
	"fmt"

	"github.com/capstone-insurance/portal/internal/models"
)

const adminClaimsPath string = "/admin/claims"
const claimsPath string = "/claims"
const myClaimsPath string = "/claims/me"

type ClaimService struct {
	api API
}

// List returns one page of all claims narrowed by the filter.
func (s *ClaimService) List(ctx context.Context, filter models.ClaimFilter) (models.Page[models.Claim], error) {
	query := pageQuery(filter.Page)
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	output := models.Page[models.Claim]{}
	err := s.api.Get(ctx, adminClaimsPath, query, &output)
	return output, err
}

// UpdateStatus records the review decision of an admin.
func (s *ClaimService) UpdateStatus(ctx context.Context, id int64, req models.ClaimStatusUpdateRequest) (models.Claim, error) {
	if !req.Status.Valid() {
		return models.Claim{}, fmt.Errorf("unknown claim status %q", req.Status)
	}
	output := models.Claim{}
	err := s.api.Put(ctx, idPath(adminClaimsPath, id)+"/status", req, &output)
	return output, err
}

func (s *ClaimService) Mine(ctx context.Context) ([]models.Claim, error) {
	output := []models.Claim{}
	err := s.api.Get(ctx, myClaimsPath, nil, &output)
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (s *ClaimService) Create(ctx context.Context, req models.ClaimCreateRequest) (models.Claim, error) {
	output := models.Claim{}
	err := s.api.Post(ctx, claimsPath, req, &output)
	return output, err
}
