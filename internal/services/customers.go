package services

import (
	"context"

	"github.com/capstone-insurance/portal/internal/models"
)

const customersPath string = "/admin/customers"

type CustomerService struct {
	api API
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	output := []models.Customer{}
	err := s.api.Get(ctx, customersPath, nil, &output)
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (models.Customer, error) {
	output := models.Customer{}
	err := s.api.Get(ctx, idPath(customersPath, id), nil, &output)
	return output, err
}

func (s *CustomerService) Create(ctx context.Context, req models.CustomerCreateRequest) (models.Customer, error) {
	output := models.Customer{}
	err := s.api.Post(ctx, customersPath, req, &output)
	return output, err
}

func (s *CustomerService) Update(ctx context.Context, id int64, req models.CustomerUpdateRequest) (models.Customer, error) {
	output := models.Customer{}
	err := s.api.Put(ctx, idPath(customersPath, id), req, &output)
	return output, err
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, idPath(customersPath, id), nil)
}
