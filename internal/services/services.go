// Package services contains typed wrappers around the backend endpoints used by the portal screens.
package services

import (
	"context"
	"net/url"
	"strconv"
)

// API is the part of the gateway client used by the services.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Services struct {
	Customers *CustomerService
	Policies  *PolicyService
	Claims    *ClaimService
	Activity  *ActivityService
	Dashboard *DashboardService
}

func New(api API) Services {
	return Services{
		Customers: &CustomerService{api: api},
		Policies:  &PolicyService{api: api},
		Claims:    &ClaimService{api: api},
		Activity:  &ActivityService{api: api},
		Dashboard: &DashboardService{api: api},
	}
}

func pageQuery(page int) url.Values {
	if page < 0 {
		page = 0
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}
