package validation

import (
	"strconv"
	"strings"

	"github.com/capstone-insurance/portal/internal/models"
)

var customerRules = NewRules().
	Add("name", Rule{Required: true, MinLength: 2}).
	Add("email", Rule{Required: true, Email: true}).
	Add("phone", Rule{Required: true, Phone: true}).
	Add("address", Rule{Required: true, MinLength: 5})

var customerAccountRules = NewRules().
	Add("username", Rule{Required: true, MinLength: 3}).
	Add("password", Rule{Required: true, MinLength: 6})

var policyRules = NewRules().
	Add("policyNumber", Rule{Required: true, MinLength: minPolicyNumberLength}).
	Add("policyType", Rule{Required: true}).
	Add("premiumAmount", Rule{Required: true, Amount: true}).
	Add("coverageAmount", Rule{Amount: true}).
	Add("startDate", Rule{Required: true, Date: true}).
	Add("endDate", Rule{Date: true})

var claimRules = NewRules().
	Add("policyId", Rule{Required: true}).
	Add("claimAmount", Rule{Required: true, Amount: true}).
	Add("claimDate", Rule{Required: true, Date: true}).
	Add("description", Rule{Required: true, MinLength: 10})

var assignRules = NewRules().
	Add("customerId", Rule{Required: true}).
	Add("policyId", Rule{Required: true})

// CustomerForm holds the raw values of the customer form. The account fields are only needed on creation.
type CustomerForm struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Username string
	Password string
}

func (f CustomerForm) values() map[string]string {
	return map[string]string{
		"name":     f.Name,
		"email":    f.Email,
		"phone":    f.Phone,
		"address":  f.Address,
		"username": f.Username,
		"password": f.Password,
	}
}

func (f CustomerForm) Validate(creating bool) Errors {
	errors := ValidateForm(f.values(), customerRules)
	if creating {
		for pair := ValidateForm(f.values(), customerAccountRules).Oldest(); pair != nil; pair = pair.Next() {
			errors.Set(pair.Key, pair.Value)
		}
	}
	return errors
}

func (f CustomerForm) CreateRequest() models.CustomerCreateRequest {
	return models.CustomerCreateRequest{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Phone:    f.Phone,
		Address:  strings.TrimSpace(f.Address),
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
	}
}

// CustomerFormFrom fills the form with a stored customer, for editing. The account fields stay empty.
func CustomerFormFrom(customer models.Customer) CustomerForm {
	return CustomerForm{Name: customer.Name, Email: customer.Email, Phone: customer.Phone, Address: customer.Address}
}

func (f CustomerForm) UpdateRequest() models.CustomerUpdateRequest {
	return models.CustomerUpdateRequest{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   f.Phone,
		Address: strings.TrimSpace(f.Address),
	}
}

type PolicyForm struct {
	PolicyNumber   string
	PolicyType     string
	PremiumAmount  string
	CoverageAmount string
	StartDate      string
	EndDate        string
	// Status is kept when an existing policy is edited, new policies are active
	Status string
}

func PolicyFormFrom(policy models.Policy) PolicyForm {
	return PolicyForm{
		PolicyNumber:   policy.PolicyNumber,
		PolicyType:     string(policy.PolicyType),
		PremiumAmount:  strconv.FormatFloat(policy.PremiumAmount, 'f', -1, 64),
		CoverageAmount: formatOptionalAmount(policy.CoverageAmount),
		StartDate:      policy.StartDate,
		EndDate:        policy.EndDate,
		Status:         string(policy.Status),
	}
}

func formatOptionalAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func (f PolicyForm) Validate() Errors {
	errors := ValidateForm(map[string]string{
		"policyNumber":   f.PolicyNumber,
		"policyType":     f.PolicyType,
		"premiumAmount":  f.PremiumAmount,
		"coverageAmount": f.CoverageAmount,
		"startDate":      f.StartDate,
		"endDate":        f.EndDate,
	}, policyRules)
	if errors.Field("startDate") == "" && errors.Field("endDate") == "" && f.EndDate != "" {
		start, _ := ParseDate(f.StartDate)
		end, _ := ParseDate(f.EndDate)
		if end.Before(start) {
			errors.Set("endDate", "End date must be after the start date")
		}
	}
	return errors
}

// Request converts a validated form.
func (f PolicyForm) Request() models.PolicyRequest {
	premium, _ := ParseAmount(f.PremiumAmount)
	coverage, _ := ParseAmount(f.CoverageAmount)
	status := models.PolicyStatus(strings.TrimSpace(f.Status))
	if status == "" {
		status = models.PolicyStatusActive
	}
	return models.PolicyRequest{
		PolicyNumber:   strings.TrimSpace(f.PolicyNumber),
		PolicyType:     models.PolicyType(strings.TrimSpace(f.PolicyType)),
		PremiumAmount:  premium,
		CoverageAmount: coverage,
		StartDate:      f.StartDate,
		EndDate:        f.EndDate,
		Status:         status,
	}
}

type ClaimForm struct {
	PolicyID    string
	ClaimAmount string
	ClaimDate   string
	Description string
	EvidenceURL string
}

func (f ClaimForm) Validate() Errors {
	errors := ValidateForm(map[string]string{
		"policyId":    f.PolicyID,
		"claimAmount": f.ClaimAmount,
		"claimDate":   f.ClaimDate,
		"description": f.Description,
	}, claimRules)
	if errors.Field("policyId") == "" {
		if _, err := strconv.ParseInt(strings.TrimSpace(f.PolicyID), 10, 64); err != nil {
			errors.Set("policyId", "Select a valid policy")
		}
	}
	return errors
}

func (f ClaimForm) Request() models.ClaimCreateRequest {
	policyID, _ := strconv.ParseInt(strings.TrimSpace(f.PolicyID), 10, 64)
	amount, _ := ParseAmount(f.ClaimAmount)
	return models.ClaimCreateRequest{
		PolicyID:    policyID,
		ClaimAmount: amount,
		ClaimDate:   f.ClaimDate,
		Description: strings.TrimSpace(f.Description),
		EvidenceURL: strings.TrimSpace(f.EvidenceURL),
	}
}

type AssignForm struct {
	CustomerID string
	PolicyID   string
}

func (f AssignForm) Validate() Errors {
	errors := ValidateForm(map[string]string{
		"customerId": f.CustomerID,
		"policyId":   f.PolicyID,
	}, assignRules)
	fields := []struct{ name, value string }{{"customerId", f.CustomerID}, {"policyId", f.PolicyID}}
	for _, field := range fields {
		if errors.Field(field.name) != "" {
			continue
		}
		if _, err := strconv.ParseInt(strings.TrimSpace(field.value), 10, 64); err != nil {
			errors.Set(field.name, "Customer ID and Policy ID must be numbers")
		}
	}
	return errors
}

func (f AssignForm) IDs() (int64, int64) {
	customerID, _ := strconv.ParseInt(strings.TrimSpace(f.CustomerID), 10, 64)
	policyID, _ := strconv.ParseInt(strings.TrimSpace(f.PolicyID), 10, 64)
	return customerID, policyID
}

type ClaimReviewForm struct {
	Status  string
	Remarks string
}

func (f ClaimReviewForm) Validate() Errors {
	errors := NewErrors()
	status := models.ClaimStatus(strings.ToUpper(strings.TrimSpace(f.Status)))
	if !status.Valid() {
		errors.Set("status", "Invalid claim status")
	}
	return errors
}

func (f ClaimReviewForm) Request() models.ClaimStatusUpdateRequest {
	return models.ClaimStatusUpdateRequest{
		Status:  models.ClaimStatus(strings.ToUpper(strings.TrimSpace(f.Status))),
		Remarks: strings.TrimSpace(f.Remarks),
	}
}
