package portal

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/capstone-insurance/portal/internal/gateway"
	"github.com/capstone-insurance/portal/internal/services"
	"github.com/capstone-insurance/portal/internal/sessionkeeper"
)

// ClientFactory creates the gateway client of a new browser session.
type ClientFactory func(sessionID string) (*gateway.Client, error)

// Session is the server side state of one browser. Each session has its own gateway client so that
// refreshes and credentials of different users never mix.
type Session struct {
	ID       string
	Client   *gateway.Client
	Services services.Services

	lastSeen time.Time
	lock     sync.Mutex
	notice   string
}

// SetNotice stores a message that is shown on the next rendered page.
func (s *Session) SetNotice(notice string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.notice = notice
}

func (s *Session) takeNotice() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	notice := s.notice
	s.notice = ""
	return notice
}

// ReleaseFunc is called with the ID of every session that leaves the pool.
type ReleaseFunc func(sessionID string)

type SessionPool struct {
	factory  ClientFactory
	release  ReleaseFunc
	lock     sync.Mutex
	sessions map[string]*Session
}

func NewSessionPool(factory ClientFactory, release ReleaseFunc) *SessionPool {
	return &SessionPool{factory: factory, release: release, sessions: map[string]*Session{}}
}

// Create adds a new session with its own client. The ID must be freshly generated by the server,
// IDs sent by browsers are only ever looked up.
func (p *SessionPool) Create(id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("the session ID cannot be empty")
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if _, found := p.sessions[id]; found {
		return nil, fmt.Errorf("the session %s already exists", id)
	}
	client, err := p.factory(id)
	if err != nil {
		return nil, err
	}
	session := &Session{ID: id, Client: client, Services: services.New(client), lastSeen: time.Now()}
	p.sessions[id] = session
	slog.Debug("SESSION POOL", "message", "session created", "sessionID", id)
	return session, nil
}

// Lookup returns the session with the given ID if it is in the pool. It never creates sessions.
func (p *SessionPool) Lookup(id string) (*Session, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	session, found := p.sessions[id]
	if !found {
		return nil, false
	}
	session.lastSeen = time.Now()
	return session, true
}

func (p *SessionPool) Remove(id string) {
	p.lock.Lock()
	_, found := p.sessions[id]
	delete(p.sessions, id)
	p.lock.Unlock()
	if found && p.release != nil {
		p.release(id)
	}
}

// Sessions returns a snapshot of the sessions in the pool.
func (p *SessionPool) Sessions() []*Session {
	p.lock.Lock()
	defer p.lock.Unlock()
	output := make([]*Session, 0, len(p.sessions))
	for _, session := range p.sessions {
		output = append(output, session)
	}
	return output
}

// Refreshers returns the gateway client of every session, keyed by session ID.
func (p *SessionPool) Refreshers() map[string]sessionkeeper.Refresher {
	p.lock.Lock()
	defer p.lock.Unlock()
	output := make(map[string]sessionkeeper.Refresher, len(p.sessions))
	for id, session := range p.sessions {
		output[id] = session.Client
	}
	return output
}

func (p *SessionPool) Len() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.sessions)
}

// Prune drops the sessions that have not been used for longer than maxIdle. A browser that comes back
// with a pruned session cookie starts over with a new session.
func (p *SessionPool) Prune(maxIdle time.Duration) int {
	p.lock.Lock()
	cutoff := time.Now().Add(-maxIdle)
	removed := []string{}
	for id, session := range p.sessions {
		if session.lastSeen.Before(cutoff) {
			delete(p.sessions, id)
			removed = append(removed, id)
		}
	}
	p.lock.Unlock()
	if p.release != nil {
		for _, id := range removed {
			p.release(id)
		}
	}
	return len(removed)
}
