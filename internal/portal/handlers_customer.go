package portal

import (
	"net/http"

	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/labstack/echo/v4"
)

func (s *Server) getCustomerDashboard(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	policies, err := session.Services.Policies.Mine(c.Request().Context())
	if err != nil {
		return err
	}
	page := newPage(c, session, "My policies")
	page.Data = policies
	return c.Render(http.StatusOK, "customer_dashboard", page)
}

func (s *Server) getCustomerClaims(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	claims, err := session.Services.Claims.Mine(c.Request().Context())
	if err != nil {
		return err
	}
	page := newPage(c, session, "My claims")
	page.Data = claims
	return c.Render(http.StatusOK, "customer_claims", page)
}

func (s *Server) getNewClaim(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	return s.renderNewClaim(c, session, formState{Form: validation.ClaimForm{}}, http.StatusOK)
}

// renderNewClaim shows the claim form, the policies of the customer fill the policy selection.
func (s *Server) renderNewClaim(c echo.Context, session *Session, state formState, status int) error {
	policies, err := session.Services.Policies.Mine(c.Request().Context())
	if err != nil {
		return err
	}
	page := newPage(c, session, "New claim")
	page.Data = policies
	state.apply(&page)
	return c.Render(status, "customer_claim_new", page)
}

func (s *Server) postNewClaim(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	form := validation.ClaimForm{
		PolicyID:    c.FormValue("policyId"),
		ClaimAmount: c.FormValue("claimAmount"),
		ClaimDate:   c.FormValue("claimDate"),
		Description: c.FormValue("description"),
		EvidenceURL: c.FormValue("evidenceUrl"),
	}
	errs := form.Validate()
	if !errs.Valid() {
		return s.renderNewClaim(c, session, formState{Form: form, Errors: errs}, http.StatusUnprocessableEntity)
	}
	_, err = session.Services.Claims.Create(c.Request().Context(), form.Request())
	if err != nil {
		if msg, ok := rejectedByBackend(err); ok {
			return s.renderNewClaim(c, session, formState{Form: form, Error: msg}, http.StatusUnprocessableEntity)
		}
		return err
	}
	session.SetNotice("Claim submitted")
	return seeOther(c, "/customer/claims")
}
