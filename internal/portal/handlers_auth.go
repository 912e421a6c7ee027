package portal

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/capstone-insurance/portal/internal/gateway"
	"github.com/capstone-insurance/portal/internal/utils"
	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/labstack/echo/v4"
)

var loginRules = validation.NewRules().
	Add("username", validation.Rule{Required: true}).
	Add("password", validation.Rule{Required: true})

type loginForm struct {
	Username string
	Password string
}

func (s *Server) getRoot(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	identity, ok := session.Client.Identity(c.Request().Context())
	if ok && identity.Role.Validate() == nil {
		return c.Redirect(http.StatusFound, identity.Role.HomePath())
	}
	return c.Redirect(http.StatusFound, "/login")
}

func (s *Server) getLogin(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	identity, ok := session.Client.Identity(c.Request().Context())
	if ok && identity.Role.Validate() == nil {
		return c.Redirect(http.StatusFound, identity.Role.HomePath())
	}
	page := newPage(c, session, "Log in")
	page.Form = loginForm{}
	return c.Render(http.StatusOK, "login", page)
}

func (s *Server) postLogin(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	form := loginForm{Username: c.FormValue("username"), Password: c.FormValue("password")}
	page := newPage(c, session, "Log in")
	page.Form = loginForm{Username: form.Username}
	page.Errors = validation.ValidateForm(map[string]string{
		"username": form.Username,
		"password": form.Password,
	}, loginRules)
	if !page.Errors.Valid() {
		return c.Render(http.StatusUnprocessableEntity, "login", page)
	}
	// the login happens on a new session so that a session ID known before the login is never authenticated
	fresh, err := s.newSession()
	if err != nil {
		return err
	}
	identity, err := fresh.Client.Login(ctx, form.Username, form.Password)
	if err != nil {
		s.sessions.Remove(fresh.ID)
		var apiErr *gateway.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode >= 500 {
			return err
		}
		page.Error = "Login failed"
		if apiErr.Message != "" {
			page.Error = apiErr.Message
		}
		slog.Info("PORTAL", "message", "login rejected", "status", apiErr.StatusCode, "requestID", utils.GetRequestID(c))
		return c.Render(http.StatusUnauthorized, "login", page)
	}
	if err := identity.Role.Validate(); err != nil {
		slog.Error("PORTAL", "message", "logged in user has no usable role", "error", err, "requestID", utils.GetRequestID(c))
		logoutErr := fresh.Client.Logout(ctx)
		s.sessions.Remove(fresh.ID)
		if logoutErr != nil {
			return logoutErr
		}
		page.Error = "Your account has no access to the portal"
		return c.Render(http.StatusForbidden, "login", page)
	}
	s.sessions.Remove(session.ID)
	c.Set(sessionCtxKey, fresh)
	c.SetCookie(s.sessionCookie(fresh.ID))
	slog.Debug("PORTAL", "message", "session rotated after login", "requestID", utils.GetRequestID(c))
	return seeOther(c, identity.Role.HomePath())
}

// logout ends the session at the backend and drops the browser session.
func (s *Server) logout(c echo.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	err = session.Client.Logout(c.Request().Context())
	if err != nil {
		return err
	}
	s.sessions.Remove(session.ID)
	cookie := s.sessionCookie("")
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return seeOther(c, "/login")
}
