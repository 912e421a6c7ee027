package portal

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/capstone-insurance/portal/internal/models"
	"github.com/capstone-insurance/portal/internal/services"
	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/labstack/echo/v4"
)

func (s *Server) getAdminDashboard(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	stats, err := session.Services.Dashboard.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	page := newPage(c, session, "Dashboard")
	page.Data = stats
	return c.Render(http.StatusOK, "admin_dashboard", page)
}

func (s *Server) getCustomers(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	return s.renderCustomers(c, session, formState{Form: validation.CustomerForm{}}, http.StatusOK)
}

func (s *Server) renderCustomers(c echo.Context, session *Session, state formState, status int) error {
	customers, err := session.Services.Customers.List(c.Request().Context())
	if err != nil {
		return err
	}
	page := newPage(c, session, "Customers")
	page.Search = searchParam(c)
	page.Data = services.SearchCustomers(customers, page.Search)
	state.apply(&page)
	return c.Render(status, "admin_customers", page)
}

func (s *Server) postCustomer(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	form := customerFormValues(c)
	shown := form
	shown.Password = ""
	errs := form.Validate(true)
	if !errs.Valid() {
		return s.renderCustomers(c, session, formState{Form: shown, Errors: errs}, http.StatusUnprocessableEntity)
	}
	_, err = session.Services.Customers.Create(c.Request().Context(), form.CreateRequest())
	if err != nil {
		if msg, ok := rejectedByBackend(err); ok {
			return s.renderCustomers(c, session, formState{Form: shown, Error: msg}, http.StatusUnprocessableEntity)
		}
		return err
	}
	session.SetNotice("Customer created")
	return seeOther(c, "/admin/customers")
}

func (s *Server) deleteCustomer(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	err = session.Services.Customers.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	session.SetNotice("Customer deleted")
	return seeOther(c, "/admin/customers")
}

func customerFormValues(c echo.Context) validation.CustomerForm {
	return validation.CustomerForm{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone"),
		Address:  c.FormValue("address"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}
}

func (s *Server) getEditCustomer(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	customer, err := session.Services.Customers.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return s.renderEditCustomer(c, session, id, formState{Form: validation.CustomerFormFrom(customer)}, http.StatusOK)
}

func (s *Server) renderEditCustomer(c echo.Context, session *Session, id int64, state formState, status int) error {
	page := newPage(c, session, "Edit customer")
	page.EditID = id
	state.apply(&page)
	return c.Render(status, "admin_customer_edit", page)
}

func (s *Server) postEditCustomer(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	form := customerFormValues(c)
	errs := form.Validate(false)
	if !errs.Valid() {
		return s.renderEditCustomer(c, session, id, formState{Form: form, Errors: errs}, http.StatusUnprocessableEntity)
	}
	_, err = session.Services.Customers.Update(c.Request().Context(), id, form.UpdateRequest())
	if err != nil {
		if msg, ok := rejectedByBackend(err); ok {
			return s.renderEditCustomer(c, session, id, formState{Form: form, Error: msg}, http.StatusUnprocessableEntity)
		}
		return err
	}
	session.SetNotice("Customer updated")
	return seeOther(c, "/admin/customers")
}

func (s *Server) getPolicies(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	return s.renderPolicies(c, session, formState{Form: validation.PolicyForm{}}, http.StatusOK)
}

func (s *Server) renderPolicies(c echo.Context, session *Session, state formState, status int) error {
	policies, err := session.Services.Policies.List(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}
	page := newPage(c, session, "Policies")
	page.Search = searchParam(c)
	policies.Content = services.SearchPolicies(policies.Content, page.Search)
	page.Data = policies
	state.apply(&page)
	return c.Render(status, "admin_policies", page)
}

func (s *Server) postPolicy(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	form := policyFormValues(c)
	errs := form.Validate()
	if !errs.Valid() {
		return s.renderPolicies(c, session, formState{Form: form, Errors: errs}, http.StatusUnprocessableEntity)
	}
	_, err = session.Services.Policies.Create(c.Request().Context(), form.Request())
	if err != nil {
		if msg, ok := rejectedByBackend(err); ok {
			return s.renderPolicies(c, session, formState{Form: form, Error: msg}, http.StatusUnprocessableEntity)
		}
		return err
	}
	session.SetNotice("Policy created")
	return seeOther(c, "/admin/policies")
}

func policyFormValues(c echo.Context) validation.PolicyForm {
	return validation.PolicyForm{
		PolicyNumber:   c.FormValue("policyNumber"),
		PolicyType:     c.FormValue("policyType"),
		PremiumAmount:  c.FormValue("premiumAmount"),
		CoverageAmount: c.FormValue("coverageAmount"),
		StartDate:      c.FormValue("startDate"),
		EndDate:        c.FormValue("endDate"),
		Status:         c.FormValue("status"),
	}
}

func (s *Server) getEditPolicy(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	policy, err := session.Services.Policies.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return s.renderEditPolicy(c, session, id, formState{Form: validation.PolicyFormFrom(policy)}, http.StatusOK)
}

func (s *Server) renderEditPolicy(c echo.Context, session *Session, id int64, state formState, status int) error {
	page := newPage(c, session, "Edit policy")
	page.EditID = id
	state.apply(&page)
	return c.Render(status, "admin_policy_edit", page)
}

func (s *Server) postEditPolicy(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	form := policyFormValues(c)
	errs := form.Validate()
	if !errs.Valid() {
		return s.renderEditPolicy(c, session, id, formState{Form: form, Errors: errs}, http.StatusUnprocessableEntity)
	}
	_, err = session.Services.Policies.Update(c.Request().Context(), id, form.Request())
	if err != nil {
		if msg, ok := rejectedByBackend(err); ok {
			return s.renderEditPolicy(c, session, id, formState{Form: form, Error: msg}, http.StatusUnprocessableEntity)
		}
		return err
	}
	session.SetNotice("Policy updated")
	return seeOther(c, "/admin/policies")
}

func (s *Server) postAssignPolicy(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	form := validation.AssignForm{CustomerID: c.FormValue("customerId"), PolicyID: c.FormValue("policyId")}
	errs := form.Validate()
	if !errs.Valid() {
		return s.renderPolicies(c, session, formState{Form: validation.PolicyForm{}, Errors: errs}, http.StatusUnprocessableEntity)
	}
	customerID, policyID := form.IDs()
	err = session.Services.Policies.Assign(c.Request().Context(), customerID, policyID)
	if err != nil {
		if msg, ok := rejectedByBackend(err); ok {
			return s.renderPolicies(c, session, formState{Form: validation.PolicyForm{}, Error: msg}, http.StatusUnprocessableEntity)
		}
		return err
	}
	session.SetNotice("Policy assigned to the customer")
	return seeOther(c, "/admin/policies")
}

// claimFilter reads the filter of the claim listing from the query, values that do not parse are ignored.
func claimFilter(c echo.Context) (models.ClaimFilter, template.URL) {
	filter := models.ClaimFilter{Page: pageParam(c)}
	query := url.Values{}
	status := models.ClaimStatus(strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))))
	if status.Valid() {
		filter.Status = status
		query.Set("status", string(status))
	}
	if from := c.QueryParam("from"); from != "" && validation.Date(from) {
		filter.From = from
		query.Set("from", from)
	}
	if to := c.QueryParam("to"); to != "" && validation.Date(to) {
		filter.To = to
		query.Set("to", to)
	}
	if len(query) == 0 {
		return filter, ""
	}
	return filter, template.URL("&" + query.Encode())
}

func (s *Server) getAdminClaims(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	return s.renderAdminClaims(c, session, formState{}, http.StatusOK)
}

func (s *Server) renderAdminClaims(c echo.Context, session *Session, state formState, status int) error {
	filter, query := claimFilter(c)
	claims, err := session.Services.Claims.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	page := newPage(c, session, "Claims")
	page.Data = claims
	page.Filter = filter
	page.Statuses = models.ClaimStatuses
	page.Query = query
	state.apply(&page)
	return c.Render(status, "admin_claims", page)
}

func (s *Server) postClaimStatus(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	form := validation.ClaimReviewForm{Status: c.FormValue("status"), Remarks: c.FormValue("remarks")}
	errs := form.Validate()
	if !errs.Valid() {
		return s.renderAdminClaims(c, session, formState{Errors: errs, Error: errs.Error()}, http.StatusUnprocessableEntity)
	}
	_, err = session.Services.Claims.UpdateStatus(c.Request().Context(), id, form.Request())
	if err != nil {
		if msg, ok := rejectedByBackend(err); ok {
			return s.renderAdminClaims(c, session, formState{Error: msg}, http.StatusUnprocessableEntity)
		}
		return err
	}
	session.SetNotice("Claim updated")
	return seeOther(c, "/admin/claims")
}

func (s *Server) getActivity(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	logs, err := session.Services.Activity.List(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}
	page := newPage(c, session, "Activity")
	page.Data = logs
	return c.Render(http.StatusOK, "admin_activity", page)
}
