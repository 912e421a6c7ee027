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

const refreshPath string = "/auth/refresh"

type refreshResponse struct {
	Token string `json:"token"`
}

// Refresh obtains a new token through the refresh endpoint. If a refresh is already in flight the
// call waits for its outcome instead of starting another one.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.freshToken(ctx, nil)
}

// freshToken either joins the refresh in flight or starts one. The flag is checked and set under the
// same lock so that two callers can never both start a refresh.
func (c *Client) freshToken(ctx context.Context, req *Request) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		pending := newPendingRequest(req)
		c.queue = append(c.queue, pending)
		c.mu.Unlock()
		method, path := pending.describe()
		slog.Debug("GATEWAY", "message", "waiting for the refresh in flight", "method", method, "path", path)
		select {
		case result := <-pending.result:
			return result.token, result.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()
	// the refresh outcome is shared with all queued requests, it is not abandoned when this caller gives up
	return c.runRefresh(context.WithoutCancel(ctx))
}

// runRefresh performs the refresh and settles the queue. It must only be called by the goroutine that
// set the refreshing flag.
func (c *Client) runRefresh(ctx context.Context) (string, error) {
	slog.Info("GATEWAY", "message", "refreshing the session token")
	token, err := c.requestToken(ctx)
	if err == nil {
		c.persistToken(ctx, token)
	}

	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	c.refreshing = false
	c.mu.Unlock()

	if err != nil {
		refreshErr := &RefreshError{Err: err}
		slog.Error("GATEWAY", "message", "session refresh failed", "queued", len(queue), "error", err)
		for _, pending := range queue {
			pending.result <- refreshResult{err: refreshErr}
		}
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			slog.Error("GATEWAY", "message", "cannot clear the stored credential", "error", clearErr)
		}
		if c.onSessionExpired != nil {
			c.onSessionExpired(refreshErr)
		}
		return "", refreshErr
	}
	slog.Info("GATEWAY", "message", "session token refreshed", "queued", len(queue))
	for _, pending := range queue {
		method, path := pending.describe()
		slog.Debug("GATEWAY", "message", "resuming queued request", "method", method, "path", path)
		pending.result <- refreshResult{token: token}
	}
	return token, nil
}

// requestToken calls the refresh endpoint. Only the cookie jar carries credentials, the bearer
// header is not sent.
func (c *Client) requestToken(ctx context.Context) (string, error) {
	req := Request{Method: http.MethodPost, Path: refreshPath, Body: struct{}{}}
	err := req.encode()
	if err != nil {
		return "", err
	}
	res, err := c.dispatch(ctx, &req, "")
	if err != nil {
		return "", err
	}
	payload := refreshResponse{}
	err = res.Decode(&payload)
	if err != nil {
		return "", err
	}
	if payload.Token == "" {
		return "", fmt.Errorf("the refresh response does not contain a token")
	}
	return payload.Token, nil
}

// persistToken replaces the stored token and keeps the stored identity. When there is no stored identity
// it is read from the token claims. A storage failure is logged and does not fail the refresh, the new
// token is handed to the waiting requests directly.
func (c *Client) persistToken(ctx context.Context, token string) {
	credential, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, gwerrors.ErrCredentialNotFound) {
			slog.Info("GATEWAY", "message", "replacing unreadable stored credential", "error", err)
		}
		credential = models.NewSessionCredential(token, identityFromToken(token))
	} else {
		credential = credential.WithToken(token)
	}
	err = c.store.Save(ctx, credential)
	if err != nil {
		slog.Error("GATEWAY", "message", "cannot save the refreshed credential", "error", err)
	}
}

func identityFromToken(token string) models.UserIdentity {
	claims, err := models.ParseTokenClaims(token)
	if err != nil {
		return models.UserIdentity{}
	}
	return models.UserIdentity{Username: claims.Subject, Role: models.Role(claims.Role)}
}
