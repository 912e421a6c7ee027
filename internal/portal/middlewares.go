package portal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/capstone-insurance/portal/internal/gateway"
	"github.com/capstone-insurance/portal/internal/gwerrors"
	"github.com/capstone-insurance/portal/internal/models"
	"github.com/capstone-insurance/portal/internal/utils"
	"github.com/capstone-insurance/portal/internal/views"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

const sessionExpiredNotice string = "Your session has expired, please log in again"

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{16,128}$`)

// NoCaching sets headers in responses that prevent caching by the browser.
func NoCaching(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var noCacheHeaders = map[string]string{
			"Expires":         time.Unix(0, 0).Format(time.RFC1123),
			"Cache-Control":   "no-cache, no-store, must-revalidate, max-age=0",
			"X-Accel-Expires": "0",
		}
		for k, v := range noCacheHeaders {
			c.Response().Header().Set(k, v)
		}
		return next(c)
	}
}

// sessionMiddleware attaches the browser session to the request. The cookie is only used to look up
// sessions the server created itself, any other value gets a new session with a new ID.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var session *Session
		cookie, err := c.Cookie(s.config.SessionCookieName)
		if err == nil && validSessionID.MatchString(cookie.Value) {
			session, _ = s.sessions.Lookup(cookie.Value)
		}
		if session == nil {
			session, err = s.newSession()
			if err != nil {
				return err
			}
			c.SetCookie(s.sessionCookie(session.ID))
			slog.Debug("SESSION MIDDLEWARE", "message", "new session", "requestID", utils.GetRequestID(c))
		}
		c.Set(sessionCtxKey, session)
		return next(c)
	}
}

func getSession(c echo.Context) (*Session, error) {
	session, ok := c.Get(sessionCtxKey).(*Session)
	if !ok || session == nil {
		return nil, fmt.Errorf("no portal session in the request context")
	}
	return session, nil
}

func getIdentity(c echo.Context) models.UserIdentity {
	identity, _ := c.Get(identityCtxKey).(models.UserIdentity)
	return identity
}

// RequireRole lets only users with the given role through. Anonymous users are sent to the login page,
// users with another role to their own start page.
func (s *Server) RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := getSession(c)
			if err != nil {
				return err
			}
			identity, ok := session.Client.Identity(c.Request().Context())
			if !ok {
				return c.Redirect(http.StatusFound, "/login")
			}
			if identity.Role != role {
				slog.Debug(
					"PORTAL",
					"message",
					"role not allowed",
					"required",
					role,
					"role",
					identity.Role,
					"requestID",
					utils.GetRequestID(c),
				)
				return c.Redirect(http.StatusFound, identity.Role.HomePath())
			}
			c.Set(identityCtxKey, identity)
			return next(c)
		}
	}
}

// handleErrors turns the errors returned by handlers into pages. An expired session always leads
// back to the login page.
func (s *Server) handleErrors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err == nil {
			return nil
		}
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return err
		}
		session, sessionErr := getSession(c)
		if errors.Is(err, gwerrors.ErrSessionExpired) {
			if sessionErr == nil {
				session.SetNotice(sessionExpiredNotice)
			}
			return c.Redirect(http.StatusFound, "/login")
		}
		status := http.StatusInternalServerError
		message := "Something went wrong, please try again later"
		var apiErr *gateway.APIError
		switch {
		case errors.Is(err, gwerrors.ErrNotFound):
			status = http.StatusNotFound
			message = "The requested resource cannot be found"
		case errors.Is(err, gwerrors.ErrForbidden):
			status = http.StatusForbidden
			message = "You are not allowed to access this resource"
		case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
			status = apiErr.StatusCode
			message = apiErr.UserMessage()
		}
		if status >= 500 {
			attrs := append([]any{"message", "request failed", "error", err}, utils.RequestAttrs(c)...)
			slog.Error("PORTAL", attrs...)
			if hub := sentryecho.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		} else {
			slog.Info("PORTAL", "message", "request rejected", "error", err, "requestID", utils.GetRequestID(c))
		}
		page := views.Page{Title: "Error", Error: message, Status: status}
		if sessionErr == nil {
			if identity, ok := session.Client.Identity(c.Request().Context()); ok {
				page.User = identity
				page.LoggedIn = true
			}
		}
		return c.Render(status, "error", page)
	}
}
