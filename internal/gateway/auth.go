package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/capstone-insurance/portal/internal/gwerrors"
	"github.com/capstone-insurance/portal/internal/models"
)

const loginPath string = "/auth/login"
const logoutPath string = "/auth/logout"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the body of a successful login.
type AuthResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	UserID   int64       `json:"userId"`
}

// Login exchanges the user credentials for a token and stores the resulting session credential.
// The refresh cookie set by the backend is kept in the cookie jar of the client.
func (c *Client) Login(ctx context.Context, username, password string) (models.UserIdentity, error) {
	res, err := c.Send(ctx, &Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   LoginRequest{Username: username, Password: password},
	})
	if err != nil {
		return models.UserIdentity{}, err
	}
	auth := AuthResponse{}
	err = res.Decode(&auth)
	if err != nil {
		return models.UserIdentity{}, err
	}
	if auth.Token == "" {
		return models.UserIdentity{}, fmt.Errorf("the login response does not contain a token")
	}
	identity := models.UserIdentity{Username: auth.Username, Role: auth.Role, UserID: auth.UserID}
	if identity.Username == "" {
		identity.Username = username
	}
	err = c.store.Save(ctx, models.NewSessionCredential(auth.Token, identity))
	if err != nil {
		return models.UserIdentity{}, err
	}
	slog.Info("GATEWAY", "message", "user logged in", "username", identity.Username, "role", identity.Role)
	return identity, nil
}

// Logout tells the backend to end the session and always removes the local credential.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Send(ctx, &Request{Method: http.MethodPost, Path: logoutPath, Body: struct{}{}})
	if err != nil {
		slog.Info("GATEWAY", "message", "logout call failed, clearing the local session anyway", "error", err)
	}
	return c.store.Clear(ctx)
}

// RestoreSession reads the stored credential at start-up. A stored credential that cannot be used is removed.
func (c *Client) RestoreSession(ctx context.Context) (models.SessionCredential, error) {
	credential, err := c.store.Load(ctx)
	if err == nil {
		err = credential.Validate()
	}
	if err == nil {
		return credential, nil
	}
	if errors.Is(err, gwerrors.ErrCredentialNotFound) {
		return models.SessionCredential{}, err
	}
	slog.Info("GATEWAY", "message", "removing unusable stored credential", "error", err)
	clearErr := c.store.Clear(ctx)
	if clearErr != nil {
		return models.SessionCredential{}, clearErr
	}
	if errors.Is(err, gwerrors.ErrInvalidCredential) {
		return models.SessionCredential{}, err
	}
	return models.SessionCredential{}, fmt.Errorf("%w: %w", gwerrors.ErrInvalidCredential, err)
}

// Credential returns the stored credential as is.
func (c *Client) Credential(ctx context.Context) (models.SessionCredential, error) {
	return c.store.Load(ctx)
}

// Identity returns the identity of the logged in user, the second value is false when nobody is logged in.
func (c *Client) Identity(ctx context.Context) (models.UserIdentity, bool) {
	credential, err := c.store.Load(ctx)
	if err != nil || credential.Empty() {
		return models.UserIdentity{}, false
	}
	return credential.Identity(), true
}
