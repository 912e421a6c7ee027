package views

import (
	"html/template"
	"io"

	"github.com/capstone-insurance/portal/internal/models"
	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/labstack/echo/v4"
)

// Page is the data every portal template is rendered with.
type Page struct {
	Title    string
	User     models.UserIdentity
	LoggedIn bool
	Error    string
	Notice   string
	// Status is only used by the error page
	Status int
	// Form holds the submitted values so that a rejected form is shown again as typed
	Form   any
	Errors validation.Errors
	Data   any
	// Search is the text typed in the search box of a listing
	Search string
	// EditID is the record shown by an edit page
	EditID int64
	// The claim filter fields are only used by the admin claims page
	Filter   models.ClaimFilter
	Statuses []models.ClaimStatus
	Query    template.URL
}

func (p Page) IsAdmin() bool {
	return p.User.Role == models.AdminRole
}

type TemplateRenderer struct {
	templates *template.Template
}

func (tr *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return tr.templates.ExecuteTemplate(w, name, data)
}

func (tr *TemplateRenderer) Register(e *echo.Echo) {
	e.Renderer = tr
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	templates, err := getTemplates()
	if err != nil {
		return &TemplateRenderer{}, err
	}
	tr := TemplateRenderer{
		templates,
	}
	return &tr, nil
}
