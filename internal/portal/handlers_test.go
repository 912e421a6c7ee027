package portal

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomerForm() url.Values {
	return url.Values{
		"name":     {"Dave Smith"},
		"email":    {"dave@example.org"},
		"phone":    {"0123456789"},
		"address":  {"1 Main Street"},
		"username": {"dave"},
		"password": {"secret1"},
	}
}

func TestCreateCustomer(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	form := validCustomerForm()
	form.Set("email", "not-an-email")
	form.Set("phone", "12ab")
	rec := b.post("/admin/customers", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email address")
	assert.Contains(t, rec.Body.String(), "Phone number can only contain numbers (0-9)")
	assert.NotContains(t, rec.Body.String(), "secret1")

	form = validCustomerForm()
	form.Set("username", "taken")
	rec = b.post("/admin/customers", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")

	rec = b.post("/admin/customers", validCustomerForm())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/customers", rec.Header().Get("Location"))
	assert.Equal(t, "dave", p.backend.last()["username"])

	rec = b.get("/admin/customers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer created")
	assert.Contains(t, rec.Body.String(), "Carol")
}

func TestDeleteCustomer(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	rec := b.post("/admin/customers/4/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, map[string]string{"method": http.MethodDelete, "path": "/api/admin/customers/4", "body": ""}, p.backend.last())

	rec = b.post("/admin/customers/abc/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The requested resource cannot be found")
}

func TestEditCustomer(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	rec := b.get("/admin/customers/4/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/admin/customers/4/edit"`)
	assert.Contains(t, rec.Body.String(), `value="5550001111"`)
	assert.NotContains(t, rec.Body.String(), `name="password"`)

	rec = b.post("/admin/customers/4/edit", url.Values{
		"name":    {"Carol Jones"},
		"email":   {"carol@example.org"},
		"phone":   {"555"},
		"address": {"1 Main Street"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Phone number must contain exactly 10 digits (currently 3)")
	assert.Contains(t, rec.Body.String(), `value="Carol Jones"`)

	rec = b.post("/admin/customers/4/edit", url.Values{
		"name":    {"Carol Jones"},
		"email":   {"carol@example.org"},
		"phone":   {"5550002222"},
		"address": {"1 Main Street"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/customers", rec.Header().Get("Location"))
	last := p.backend.last()
	assert.Equal(t, http.MethodPut, last["method"])
	assert.Equal(t, "/api/admin/customers/4", last["path"])
	assert.JSONEq(t, `{"name":"Carol Jones","email":"carol@example.org","phone":"5550002222","address":"1 Main Street"}`, last["body"])

	rec = b.get("/admin/customers")
	assert.Contains(t, rec.Body.String(), "Customer updated")
	assert.Contains(t, rec.Body.String(), `href="/admin/customers/4/edit"`)

	rec = b.get("/admin/customers/0/edit")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchCustomers(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	rec := b.get("/admin/customers?q=carol")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carol@example.org")
	assert.Contains(t, rec.Body.String(), `name="q" value="carol"`)

	rec = b.get("/admin/customers?q=nobody")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "carol@example.org")
	assert.Contains(t, rec.Body.String(), "No customers match the search")
}

func TestEditPolicy(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	rec := b.get("/admin/policies/5/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="POL-00005"`)
	assert.Contains(t, rec.Body.String(), `value="99.5"`)
	assert.Contains(t, rec.Body.String(), `name="status" value="EXPIRED"`)

	form := url.Values{
		"policyNumber":  {"POL-00005"},
		"policyType":    {"HEALTH"},
		"premiumAmount": {"abc"},
		"startDate":     {"2024-01-01"},
		"status":        {"EXPIRED"},
	}
	rec = b.post("/admin/policies/5/edit", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid amount")

	form.Set("premiumAmount", "150")
	rec = b.post("/admin/policies/5/edit", form)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/policies", rec.Header().Get("Location"))
	last := p.backend.last()
	assert.Equal(t, http.MethodPut, last["method"])
	assert.Equal(t, "/api/admin/policies/5", last["path"])
	assert.Contains(t, last["body"], `"premiumAmount":150`)
	assert.Contains(t, last["body"], `"status":"EXPIRED"`)
}

func TestSearchPolicies(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	rec := b.get("/admin/policies?page=1&q=pol-00005")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/admin/policies/5/edit"`)
	assert.Contains(t, rec.Body.String(), `href="/admin/policies?page=0&amp;q=pol-00005"`)

	rec = b.get("/admin/policies?q=vehicle")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "POL-00005")
	assert.Contains(t, rec.Body.String(), "No policies on this page match the search")
}

func TestPolicies(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	rec := b.get("/admin/policies?page=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page=1", p.backend.last()["query"])
	assert.Contains(t, rec.Body.String(), `href="/admin/policies?page=0"`)

	rec = b.post("/admin/policies", url.Values{
		"policyNumber":  {"POL"},
		"policyType":    {"HEALTH"},
		"premiumAmount": {"-3"},
		"startDate":     {"2024-01-01"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Minimum length is 5 characters")
	assert.Contains(t, rec.Body.String(), "Invalid amount")

	rec = b.post("/admin/policies", url.Values{
		"policyNumber":  {"POL-12345"},
		"policyType":    {"HEALTH"},
		"premiumAmount": {"120.5"},
		"startDate":     {"2024-01-01"},
		"endDate":       {"2025-01-01"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, p.backend.last()["body"], `"policyNumber":"POL-12345"`)
	assert.Contains(t, p.backend.last()["body"], `"premiumAmount":120.5`)

	rec = b.post("/admin/policies/assign", url.Values{"customerId": {"4"}, "policyId": {"x"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer ID and Policy ID must be numbers")

	rec = b.post("/admin/policies/assign", url.Values{"customerId": {"4"}, "policyId": {"5"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/api/admin/policies/customers/4/assign", p.backend.last()["path"])
	assert.JSONEq(t, `{"policyId":5}`, p.backend.last()["body"])
}

func TestAdminClaims(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	rec := b.get("/admin/claims?status=pending&from=2024-01-01&to=garbage&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	query, err := url.ParseQuery(p.backend.last()["query"])
	require.NoError(t, err)
	assert.Equal(t, url.Values{"page": {"2"}, "status": {"PENDING"}, "from": {"2024-01-01"}}, query)
	assert.Contains(t, rec.Body.String(), "POL-00009")

	rec = b.post("/admin/claims/9/status", url.Values{"status": {"unknown"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid claim status")

	rec = b.post("/admin/claims/9/status", url.Values{"status": {"approved"}, "remarks": {" looks fine "}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/api/admin/claims/9/status", p.backend.last()["path"])
	assert.JSONEq(t, `{"status":"APPROVED","remarks":"looks fine"}`, p.backend.last()["body"])
}

func TestActivity(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("admin", "adminpw")

	rec := b.get("/admin/activity")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LOGIN")
}

func TestNewClaim(t *testing.T) {
	p := newTestPortal(t)
	b := p.browser(t)
	b.login("bob", "bobpw")

	rec := b.get("/customer/claims/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="5">POL-00005 (HEALTH)</option>`)

	rec = b.post("/customer/claims/new", url.Values{"policyId": {"5"}, "claimAmount": {"0"}, "description": {"short"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid amount")
	assert.Contains(t, rec.Body.String(), "claimDate is required")
	assert.Contains(t, rec.Body.String(), `<option value="5" selected>`)

	rec = b.post("/customer/claims/new", url.Values{
		"policyId":    {"5"},
		"claimAmount": {"250"},
		"claimDate":   {"2024-03-01"},
		"description": {"Broken window after the storm"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/customer/claims", rec.Header().Get("Location"))
	assert.Equal(t, "/api/claims", p.backend.last()["path"])
	assert.JSONEq(t,
		`{"policyId":5,"claimAmount":250,"claimDate":"2024-03-01","description":"Broken window after the storm"}`,
		p.backend.last()["body"],
	)

	rec = b.get("/customer/claims")
	assert.Contains(t, rec.Body.String(), "Claim submitted")
}
