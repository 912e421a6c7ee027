// Package portal serves the role-gated HTML screens of the insurance portal.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/capstone-insurance/portal/internal/config"
	"github.com/capstone-insurance/portal/internal/db"
	"github.com/capstone-insurance/portal/internal/gateway"
	"github.com/capstone-insurance/portal/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

const sessionCtxKey string = "portal_session"
const identityCtxKey string = "portal_identity"

type Server struct {
	config        *config.ServerConfig
	apiConfig     *config.APIConfig
	repo          models.CredentialRepository
	idGenerator   models.IDGenerator
	clientOptions []gateway.ClientOption
	sessions      *SessionPool
}

func (s *Server) RegisterHandlers(server *echo.Echo, commonMiddlewares ...echo.MiddlewareFunc) {
	e := server.Group("")
	e.Use(commonMiddlewares...)
	e.Use(s.sessionMiddleware, s.handleErrors, NoCaching)

	e.GET("/", s.getRoot)
	e.GET("/login", s.getLogin)
	e.POST("/login", s.postLogin)
	e.GET("/logout", s.logout)
	e.POST("/logout", s.logout)

	admin := e.Group("/admin", s.RequireRole(models.AdminRole))
	admin.GET("", s.getAdminDashboard)
	admin.GET("/customers", s.getCustomers)
	admin.POST("/customers", s.postCustomer)
	admin.GET("/customers/:id/edit", s.getEditCustomer)
	admin.POST("/customers/:id/edit", s.postEditCustomer)
	admin.POST("/customers/:id/delete", s.deleteCustomer)
	admin.GET("/policies", s.getPolicies)
	admin.POST("/policies", s.postPolicy)
	admin.POST("/policies/assign", s.postAssignPolicy)
	admin.GET("/policies/:id/edit", s.getEditPolicy)
	admin.POST("/policies/:id/edit", s.postEditPolicy)
	admin.GET("/claims", s.getAdminClaims)
	admin.POST("/claims/:id/status", s.postClaimStatus)
	admin.GET("/activity", s.getActivity)

	customer := e.Group("/customer", s.RequireRole(models.CustomerRole))
	customer.GET("", s.getCustomerDashboard)
	customer.GET("/claims", s.getCustomerClaims)
	customer.GET("/claims/new", s.getNewClaim)
	customer.POST("/claims/new", s.postNewClaim)
}

// Sessions returns the pool of browser sessions, used by the proactive refresh job.
func (s *Server) Sessions() *SessionPool {
	return s.sessions
}

type ServerOption func(*Server) error

func WithServerConfig(serverConfig config.ServerConfig) ServerOption {
	return func(s *Server) error {
		s.config = &serverConfig
		return nil
	}
}

func WithAPIConfig(apiConfig config.APIConfig) ServerOption {
	return func(s *Server) error {
		s.apiConfig = &apiConfig
		return nil
	}
}

// WithCredentialRepository sets where the credentials of all browser sessions are kept,
// each session under its own key.
func WithCredentialRepository(repo models.CredentialRepository) ServerOption {
	return func(s *Server) error {
		s.repo = repo
		return nil
	}
}

func WithSessionIDGenerator(generator models.IDGenerator) ServerOption {
	return func(s *Server) error {
		s.idGenerator = generator
		return nil
	}
}

// WithClientOptions adds options to every gateway client created for a browser session.
func WithClientOptions(options ...gateway.ClientOption) ServerOption {
	return func(s *Server) error {
		s.clientOptions = append(s.clientOptions, options...)
		return nil
	}
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := Server{}
	for _, opt := range options {
		err := opt(&server)
		if err != nil {
			return &Server{}, err
		}
	}
	if server.config == nil {
		return &Server{}, fmt.Errorf("portal server config not provided")
	}
	if server.apiConfig == nil {
		return &Server{}, fmt.Errorf("API config not provided")
	}
	if server.repo == nil {
		return &Server{}, fmt.Errorf("credential repository not initialized")
	}
	if server.idGenerator == nil {
		server.idGenerator = models.NewRandomGenerator(32)
	}
	server.sessions = NewSessionPool(server.newClient, server.releaseSession)
	return &server, nil
}

func (s *Server) newClient(sessionID string) (*gateway.Client, error) {
	store := db.NewCredentialStore(s.repo, db.NamespacedKey(sessionID))
	options := []gateway.ClientOption{
		gateway.WithAPIConfig(*s.apiConfig),
		gateway.WithCredentialStore(store),
		gateway.WithSessionExpiredHandler(func(err error) {
			slog.Info("PORTAL", "message", "session expired", "sessionID", sessionID, "error", err)
			sentry.CaptureException(err)
		}),
	}
	options = append(options, s.clientOptions...)
	return gateway.NewClient(options...)
}

// releaseSession removes the stored credential of a session that left the pool.
func (s *Server) releaseSession(sessionID string) {
	store := db.NewCredentialStore(s.repo, db.NamespacedKey(sessionID))
	err := store.Clear(context.Background())
	if err != nil {
		slog.Error("PORTAL", "message", "cannot clear the credential of a released session", "sessionID", sessionID, "error", err)
	}
}

// newSession starts a session under a freshly generated ID.
func (s *Server) newSession() (*Session, error) {
	sessionID, err := s.idGenerator.ID()
	if err != nil {
		return nil, err
	}
	return s.sessions.Create(sessionID)
}

func (s *Server) sessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    id,
		Path:     "/",
		Secure:   s.config.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
