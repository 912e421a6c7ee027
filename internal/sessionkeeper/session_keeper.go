// Package sessionkeeper refreshes the tokens of open portal sessions before they expire
// and drops browser sessions that have been idle for too long.
package sessionkeeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/capstone-insurance/portal/internal/config"
	"github.com/capstone-insurance/portal/internal/gwerrors"
	"github.com/capstone-insurance/portal/internal/models"
	"github.com/go-co-op/gocron"
)

// Refresher is the part of the gateway client the keeper needs.
type Refresher interface {
	Credential(ctx context.Context) (models.SessionCredential, error)
	Refresh(ctx context.Context) (string, error)
}

// SessionSource lists the open sessions by session ID and removes idle ones.
type SessionSource interface {
	Refreshers() map[string]Refresher
	Prune(maxIdle time.Duration) int
}

type SessionKeeper struct {
	proactive    bool
	interval     time.Duration
	expiryMargin time.Duration
	maxIdle      time.Duration
	sessions     SessionSource
}

func (k *SessionKeeper) GetScheduler() (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)

	if k.proactive {
		refreshExpiringTask := func(job gocron.Job) {
			err := k.refreshExpiring(job.Context())
			if err != nil {
				slog.Error("SESSION KEEPER", "message", "refreshExpiring failed", "error", err)
			}
		}
		_, err := s.Every(k.interval).SingletonMode().DoWithJobDetails(refreshExpiringTask)
		if err != nil {
			return nil, err
		}
	}
	if k.maxIdle > 0 {
		_, err := s.Every(k.maxIdle / 4).Do(k.pruneIdle)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// refreshExpiring refreshes every session whose token expires within the margin. Each refresh goes
// through the client, so it joins any refresh a request of the same session already started.
func (k *SessionKeeper) refreshExpiring(ctx context.Context) error {
	refreshers := k.sessions.Refreshers()
	expiring := 0
	failedIDs := []string{}
	for sessionID, refresher := range refreshers {
		credential, err := refresher.Credential(ctx)
		if err != nil {
			if !errors.Is(err, gwerrors.ErrCredentialNotFound) {
				slog.Info("SESSION KEEPER", "message", "cannot read credential", "sessionID", sessionID, "error", err)
			}
			continue
		}
		if !credential.ExpiresSoon(k.expiryMargin) {
			continue
		}
		expiring++
		_, err = refresher.Refresh(ctx)
		if err != nil {
			slog.Error("SESSION KEEPER", "message", "Refresh failed", "sessionID", sessionID, "error", err)
			failedIDs = append(failedIDs, sessionID)
		}
	}
	slog.Info(
		"SESSION KEEPER", "message",
		fmt.Sprintf("%v/%v expiring session tokens refreshed", expiring-len(failedIDs), expiring),
		"sessions", len(refreshers),
	)
	if len(failedIDs) != 0 {
		return fmt.Errorf("some sessions could not be refreshed %v", failedIDs)
	}
	return nil
}

func (k *SessionKeeper) pruneIdle() {
	removed := k.sessions.Prune(k.maxIdle)
	if removed > 0 {
		slog.Info("SESSION KEEPER", "message", "idle sessions removed", "count", removed)
	}
}

type SessionKeeperOption func(*SessionKeeper) error

// WithConfig enables the proactive refresh according to the refresh configuration.
func WithConfig(refreshConfig config.RefreshConfig) SessionKeeperOption {
	return func(k *SessionKeeper) error {
		k.proactive = refreshConfig.Proactive
		k.interval = time.Duration(refreshConfig.IntervalSeconds) * time.Second
		k.expiryMargin = time.Duration(refreshConfig.ExpiryMarginSeconds) * time.Second
		return nil
	}
}

// WithMaxIdle sets after how long an unused browser session is dropped, zero keeps sessions forever.
func WithMaxIdle(maxIdle time.Duration) SessionKeeperOption {
	return func(k *SessionKeeper) error {
		k.maxIdle = maxIdle
		return nil
	}
}

func WithSessionSource(sessions SessionSource) SessionKeeperOption {
	return func(k *SessionKeeper) error {
		k.sessions = sessions
		return nil
	}
}

func NewSessionKeeper(options ...SessionKeeperOption) (*SessionKeeper, error) {
	k := SessionKeeper{}
	for _, opt := range options {
		err := opt(&k)
		if err != nil {
			return nil, err
		}
	}
	if k.sessions == nil {
		return nil, fmt.Errorf("session source not initialized")
	}
	if k.proactive && k.interval <= 0 {
		return nil, fmt.Errorf("invalid refresh interval (%s)", k.interval)
	}
	if k.proactive && k.expiryMargin <= 0 {
		return nil, fmt.Errorf("invalid refresh expiry margin (%s)", k.expiryMargin)
	}
	if k.maxIdle < 0 {
		return nil, fmt.Errorf("invalid max idle time (%s)", k.maxIdle)
	}
	return &k, nil
}
