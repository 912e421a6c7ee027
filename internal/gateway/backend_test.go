package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/capstone-insurance/portal/internal/db"
	"github.com/capstone-insurance/portal/internal/models"
	"github.com/stretchr/testify/require"
)

// fakeBackend imitates the auth and business endpoints of the insurance API.
type fakeBackend struct {
	server *httptest.Server

	mu             sync.Mutex
	validToken     string
	nextToken      string
	refreshStatus  int
	logoutStatus   int
	rejectAll      bool
	releaseRefresh chan struct{}
	authHeaders    map[string][]string
	refreshAuth    []string
	lastHeaders    http.Header

	refreshCalls   atomic.Int32
	refreshStarted chan struct{}
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{
		nextToken:      "tok2",
		refreshStatus:  http.StatusOK,
		logoutStatus:   http.StatusOK,
		authHeaders:    map[string][]string{},
		refreshStarted: make(chan struct{}, 100),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", b.login)
	mux.HandleFunc("/api/auth/refresh", b.refresh)
	mux.HandleFunc("/api/auth/logout", b.logout)
	mux.HandleFunc("/api/", b.business)
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	creds := LoginRequest{}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil || creds.Username != "alice" || creds.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
		return
	}
	b.mu.Lock()
	b.validToken = "tok1"
	b.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/api/auth", HttpOnly: true})
	writeJSON(w, http.StatusOK, AuthResponse{Token: "tok1", Username: "alice", Role: models.CustomerRole, UserID: 7})
}

func (b *fakeBackend) refresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	b.mu.Lock()
	b.refreshAuth = append(b.refreshAuth, r.Header.Get("Authorization"))
	release := b.releaseRefresh
	b.mu.Unlock()
	b.refreshStarted <- struct{}{}
	if release != nil {
		<-release
	}
	cookie, err := r.Cookie("refreshToken")
	if err != nil || cookie.Value != "r1" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid refresh token"})
		return
	}
	b.mu.Lock()
	status := b.refreshStatus
	token := b.nextToken
	if status == http.StatusOK {
		b.validToken = token
	}
	b.mu.Unlock()
	if status != http.StatusOK {
		writeJSON(w, status, map[string]string{"message": "refresh failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (b *fakeBackend) logout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := b.logoutStatus
	b.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "", Path: "/api/auth", MaxAge: -1})
	writeJSON(w, status, map[string]string{})
}

func (b *fakeBackend) business(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	b.mu.Lock()
	b.authHeaders[r.URL.Path] = append(b.authHeaders[r.URL.Path], auth)
	b.lastHeaders = r.Header.Clone()
	valid := b.validToken
	rejectAll := b.rejectAll
	b.mu.Unlock()
	if r.URL.Path == "/api/bad-request" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid amount"})
		return
	}
	if rejectAll || valid == "" || auth != "Bearer "+valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, echoResponse{
		Path:  r.URL.Path,
		Query: r.URL.RawQuery,
		Token: strings.TrimPrefix(auth, "Bearer "),
	})
}

type echoResponse struct {
	Path  string `json:"path"`
	Query string `json:"query"`
	Token string `json:"token"`
}

// expireToken makes the backend reject the token handed out at login.
func (b *fakeBackend) expireToken() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validToken = ""
}

func (b *fakeBackend) setRefreshStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshStatus = status
}

// blockRefresh holds refresh calls until the returned function is called.
func (b *fakeBackend) blockRefresh() func() {
	release := make(chan struct{})
	b.mu.Lock()
	b.releaseRefresh = release
	b.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(release) }) }
}

func (b *fakeBackend) headersFor(path string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders[path]...)
}

func (b *fakeBackend) waitForRefresh(t *testing.T) {
	select {
	case <-b.refreshStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("the refresh endpoint was not called")
	}
}

func newTestClient(t *testing.T, b *fakeBackend, options ...ClientOption) (*Client, *db.CredentialStore) {
	store := db.NewCredentialStore(db.NewMockRedisAdapter(), models.CredentialStorageKey)
	options = append(
		[]ClientOption{WithBaseURL(b.server.URL + "/api"), WithCredentialStore(store)},
		options...,
	)
	c, err := NewClient(options...)
	require.NoError(t, err)
	return c, store
}

func loginAndExpire(t *testing.T, c *Client, b *fakeBackend) {
	_, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	b.expireToken()
}

func waitForQueue(t *testing.T, c *Client, n int) {
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.queue) == n
	}, 5*time.Second, 5*time.Millisecond)
}

func queueLen(c *Client) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
