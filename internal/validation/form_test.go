package validation

import (
	"encoding/json"
	"testing"

	"github.com/capstone-insurance/portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormMessages(t *testing.T) {
	rules := NewRules().
		Add("name", Rule{Required: true}).
		Add("email", Rule{Email: true}).
		Add("phone", Rule{Required: true, Phone: true}).
		Add("amount", Rule{Amount: true}).
		Add("date", Rule{Date: true}).
		Add("code", Rule{MinLength: 5})
	tests := []struct {
		name     string
		values   map[string]string
		expected map[string]string
	}{
		{
			name:   "all valid",
			values: map[string]string{"name": "Bob", "email": "bob@example.org", "phone": "0123456789", "amount": "3", "date": "2024-01-01", "code": "ABCDE"},
		},
		{
			name:     "missing required",
			values:   map[string]string{"phone": "0123456789"},
			expected: map[string]string{"name": "name is required"},
		},
		{
			name:     "missing phone",
			values:   map[string]string{"name": "Bob"},
			expected: map[string]string{"phone": "phone is required"},
		},
		{
			name:     "blank phone",
			values:   map[string]string{"name": "Bob", "phone": "   "},
			expected: map[string]string{"phone": "phone is required"},
		},
		{
			name:     "phone with letters",
			values:   map[string]string{"name": "Bob", "phone": "01234abcde"},
			expected: map[string]string{"phone": "Phone number can only contain numbers (0-9)"},
		},
		{
			name:     "short phone",
			values:   map[string]string{"name": "Bob", "phone": "01234"},
			expected: map[string]string{"phone": "Phone number must contain exactly 10 digits (currently 5)"},
		},
		{
			name:     "long phone",
			values:   map[string]string{"name": "Bob", "phone": "012345678901"},
			expected: map[string]string{"phone": "Phone number must contain exactly 10 digits (currently 12)"},
		},
		{
			name: "optional fields",
			values: map[string]string{
				"name":   "Bob",
				"phone":  "0123456789",
				"email":  "bob",
				"amount": "-1",
				"date":   "soon",
				"code":   "ABC",
			},
			expected: map[string]string{
				"email":  "Invalid email address",
				"amount": "Invalid amount",
				"date":   "Invalid date",
				"code":   "Minimum length is 5 characters",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateForm(tt.values, rules)
			actual := map[string]string{}
			for _, field := range errors.Fields() {
				actual[field] = errors.Field(field)
			}
			if tt.expected == nil {
				assert.True(t, errors.Valid())
				assert.Empty(t, actual)
				return
			}
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestErrorsKeepRuleOrder(t *testing.T) {
	rules := NewRules().
		Add("b", Rule{Required: true}).
		Add("a", Rule{Required: true}).
		Add("c", Rule{Required: true})

	errors := ValidateForm(map[string]string{}, rules)

	assert.Equal(t, []string{"b", "a", "c"}, errors.Fields())
	assert.Equal(t, "b is required (and 2 more)", errors.Error())
	raw, err := json.Marshal(errors.OrderedMap)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"b is required","a":"a is required","c":"c is required"}`, string(raw))
}

func TestCustomerForm(t *testing.T) {
	form := CustomerForm{
		Name:    " Bob ",
		Email:   "bob@example.org",
		Phone:   "0123456789",
		Address: "Main street 1",
	}
	assert.True(t, form.Validate(false).Valid())
	errors := form.Validate(true)
	assert.Equal(t, []string{"username", "password"}, errors.Fields())

	form.Username = "bob"
	form.Password = "secret1"
	assert.True(t, form.Validate(true).Valid())
	assert.Equal(t, models.CustomerCreateRequest{
		Name:     "Bob",
		Email:    "bob@example.org",
		Phone:    "0123456789",
		Address:  "Main street 1",
		Username: "bob",
		Password: "secret1",
	}, form.CreateRequest())

	form.Phone = "012 345 678"
	assert.Equal(t, "Phone number can only contain numbers (0-9)", form.Validate(false).Field("phone"))
}

func TestPolicyForm(t *testing.T) {
	form := PolicyForm{
		PolicyNumber:  "POL-0001",
		PolicyType:    "AUTO",
		PremiumAmount: "120.50",
		StartDate:     "2024-01-01",
		EndDate:       "2025-01-01",
	}
	require.True(t, form.Validate().Valid())
	req := form.Request()
	assert.Equal(t, 120.5, req.PremiumAmount)
	assert.Equal(t, models.PolicyType("AUTO"), req.PolicyType)
	assert.Equal(t, models.PolicyStatusActive, req.Status)

	form.EndDate = "2023-01-01"
	assert.Equal(t, "End date must be after the start date", form.Validate().Field("endDate"))

	form = PolicyForm{PolicyNumber: "P1"}
	errors := form.Validate()
	assert.Equal(t, "Minimum length is 5 characters", errors.Field("policyNumber"))
	assert.Equal(t, "premiumAmount is required", errors.Field("premiumAmount"))
}

func TestClaimForm(t *testing.T) {
	form := ClaimForm{PolicyID: "2", ClaimAmount: "300", ClaimDate: "2024-02-01", Description: "Broken windshield"}
	require.True(t, form.Validate().Valid())
	assert.Equal(t, models.ClaimCreateRequest{
		PolicyID:    2,
		ClaimAmount: 300,
		ClaimDate:   "2024-02-01",
		Description: "Broken windshield",
	}, form.Request())

	form.PolicyID = "abc"
	assert.Equal(t, "Select a valid policy", form.Validate().Field("policyId"))
	form = ClaimForm{PolicyID: "2", ClaimAmount: "0", ClaimDate: "2024-02-01", Description: "Broken windshield"}
	assert.Equal(t, "Invalid amount", form.Validate().Field("claimAmount"))
}

func TestAssignAndReviewForms(t *testing.T) {
	assign := AssignForm{CustomerID: "4", PolicyID: "x"}
	assert.Equal(t, []string{"policyId"}, assign.Validate().Fields())
	assign.PolicyID = "2"
	require.True(t, assign.Validate().Valid())
	customerID, policyID := assign.IDs()
	assert.Equal(t, int64(4), customerID)
	assert.Equal(t, int64(2), policyID)

	review := ClaimReviewForm{Status: "approved", Remarks: " ok "}
	require.True(t, review.Validate().Valid())
	assert.Equal(t, models.ClaimStatusUpdateRequest{Status: models.ClaimStatusApproved, Remarks: "ok"}, review.Request())
	assert.False(t, ClaimReviewForm{Status: "MAYBE"}.Validate().Valid())
}

func TestFormsFromStoredRecords(t *testing.T) {
	customer := CustomerFormFrom(models.Customer{
		ID:       4,
		Name:     "Carol Jones",
		Email:    "carol@example.org",
		Phone:    "5550001111",
		Address:  "1 Main Street",
		Username: "carol",
	})
	assert.Empty(t, customer.Username)
	require.True(t, customer.Validate(false).Valid())
	assert.False(t, customer.Validate(true).Valid())

	policy := PolicyFormFrom(models.Policy{
		PolicyNumber:  "POL-00005",
		PolicyType:    "HEALTH",
		PremiumAmount: 99.5,
		StartDate:     "2024-01-01",
		Status:        "EXPIRED",
	})
	assert.Equal(t, "99.5", policy.PremiumAmount)
	assert.Empty(t, policy.CoverageAmount)
	require.True(t, policy.Validate().Valid())
	assert.Equal(t, models.PolicyStatus("EXPIRED"), policy.Request().Status)
}
