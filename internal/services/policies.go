package services

import (
	"context"

	"github.com/capstone-insurance/portal/internal/models"
)

const policiesPath string = "/admin/policies"
const myPoliciesPath string = "/policy/customer/my-policies"

type PolicyService struct {
	api API
}

// List returns one page of all policies, pages start at 0.
func (s *PolicyService) List(ctx context.Context, page int) (models.Page[models.Policy], error) {
	output := models.Page[models.Policy]{}
	err := s.api.Get(ctx, policiesPath, pageQuery(page), &output)
	return output, err
}

func (s *PolicyService) Get(ctx context.Context, id int64) (models.Policy, error) {
	output := models.Policy{}
	err := s.api.Get(ctx, idPath(policiesPath, id), nil, &output)
	return output, err
}

func (s *PolicyService) Create(ctx context.Context, req models.PolicyRequest) (models.Policy, error) {
	output := models.Policy{}
	err := s.api.Post(ctx, policiesPath, req, &output)
	return output, err
}

func (s *PolicyService) Update(ctx context.Context, id int64, req models.PolicyRequest) (models.Policy, error) {
	output := models.Policy{}
	err := s.api.Put(ctx, idPath(policiesPath, id), req, &output)
	return output, err
}

// Assign links an existing policy to a customer.
func (s *PolicyService) Assign(ctx context.Context, customerID int64, policyID int64) error {
	path := idPath(policiesPath+"/customers", customerID) + "/assign"
	return s.api.Post(ctx, path, models.AssignPolicyRequest{PolicyID: policyID}, nil)
}

// Mine returns the policies of the logged in customer.
func (s *PolicyService) Mine(ctx context.Context) ([]models.Policy, error) {
	output := []models.Policy{}
	err := s.api.Get(ctx, myPoliciesPath, nil, &output)
	if err != nil {
		return nil, err
	}
	return output, nil
}
