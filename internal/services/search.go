package services

import (
	"strings"

	"github.com/capstone-insurance/portal/internal/models"
)

// SearchCustomers keeps the customers whose name, email, phone, username or address contains the query,
// ignoring case. The backend has no search parameter, the listing is filtered after it was fetched.
func SearchCustomers(customers []models.Customer, query string) []models.Customer {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return customers
	}
	output := []models.Customer{}
	for _, customer := range customers {
		if containsAny(query, customer.Name, customer.Email, customer.Phone, customer.Username, customer.Address) {
			output = append(output, customer)
		}
	}
	return output
}

// SearchPolicies keeps the policies whose number or type contains the query, ignoring case.
func SearchPolicies(policies []models.Policy, query string) []models.Policy {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return policies
	}
	output := []models.Policy{}
	for _, policy := range policies {
		if containsAny(query, policy.PolicyNumber, string(policy.PolicyType)) {
			output = append(output, policy)
		}
	}
	return output
}

func containsAny(query string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
