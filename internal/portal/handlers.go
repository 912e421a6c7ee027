package portal

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/capstone-insurance/portal/internal/gateway"
	"github.com/capstone-insurance/portal/internal/gwerrors"
	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/capstone-insurance/portal/internal/views"
	"github.com/labstack/echo/v4"
)

// formState is what a form page needs to show a rejected submission again.
type formState struct {
	Form   any
	Errors validation.Errors
	Error  string
}

func newPage(c echo.Context, session *Session, title string) views.Page {
	identity := getIdentity(c)
	return views.Page{
		Title:    title,
		User:     identity,
		LoggedIn: identity.Username != "",
		Notice:   session.takeNotice(),
	}
}

func (f formState) apply(page *views.Page) {
	page.Form = f.Form
	page.Errors = f.Errors
	if f.Error != "" {
		page.Error = f.Error
	}
}

// rejectedByBackend returns the message to show next to a form when the backend refused the submitted data.
func rejectedByBackend(err error) (string, bool) {
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		return "", false
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return apiErr.UserMessage(), true
	default:
		return "", false
	}
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}

func searchParam(c echo.Context) string {
	return strings.TrimSpace(c.QueryParam("q"))
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid ID %q", gwerrors.ErrNotFound, c.Param("id"))
	}
	return id, nil
}

func seeOther(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}
