package portal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/capstone-insurance/portal/internal/config"
	"github.com/capstone-insurance/portal/internal/db"
	"github.com/capstone-insurance/portal/internal/gateway"
	"github.com/capstone-insurance/portal/internal/models"
	"github.com/capstone-insurance/portal/internal/views"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testCookieName string = "_portal_session"

type testUser struct {
	password string
	identity models.UserIdentity
	token    string
}

// fakeBackend answers the endpoints used by the portal screens.
type fakeBackend struct {
	server *httptest.Server

	mu          sync.Mutex
	users       map[string]testUser
	validTokens map[string]models.Role
	logouts     int
	lastBody    map[string]string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{
		users: map[string]testUser{
			"admin": {"adminpw", models.UserIdentity{Username: "admin", Role: models.AdminRole, UserID: 1}, "admin-tok"},
			"bob":   {"bobpw", models.UserIdentity{Username: "bob", Role: models.CustomerRole, UserID: 2}, "bob-tok"},
		},
		validTokens: map[string]models.Role{},
		lastBody:    map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", b.login)
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Refresh token expired"})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.logouts++
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/admin/dashboard/stats", b.authorized(models.AdminRole, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.DashboardStats{TotalCustomers: 42, PendingClaims: 3})
	}))
	mux.HandleFunc("/api/admin/customers", b.authorized(models.AdminRole, b.customers))
	mux.HandleFunc("/api/admin/customers/", b.authorized(models.AdminRole, b.recordOr(models.Customer{
		ID:      4,
		Name:    "Carol",
		Email:   "carol@example.org",
		Phone:   "5550001111",
		Address: "1 Main Street",
	})))
	mux.HandleFunc("/api/admin/policies", b.authorized(models.AdminRole, b.policies))
	mux.HandleFunc("/api/admin/policies/customers/", b.authorized(models.AdminRole, b.record))
	mux.HandleFunc("/api/admin/policies/", b.authorized(models.AdminRole, b.recordOr(models.Policy{
		ID:            5,
		PolicyNumber:  "POL-00005",
		PolicyType:    "HEALTH",
		PremiumAmount: 99.5,
		StartDate:     "2024-01-01",
		Status:        "EXPIRED",
	})))
	mux.HandleFunc("/api/admin/claims", b.authorized(models.AdminRole, func(w http.ResponseWriter, r *http.Request) {
		b.recordQuery(r)
		writeJSON(w, http.StatusOK, models.Page[models.Claim]{
			Content:    []models.Claim{{ID: 9, PolicyNumber: "POL-00009", Status: models.ClaimStatusPending}},
			TotalPages: 1,
		})
	}))
	mux.HandleFunc("/api/admin/claims/", b.authorized(models.AdminRole, b.record))
	mux.HandleFunc("/api/admin/activity-logs", b.authorized(models.AdminRole, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Page[models.ActivityLog]{
			Content:    []models.ActivityLog{{ID: 1, Username: "admin", ActionType: "LOGIN", CreatedAt: time.Now()}},
			TotalPages: 1,
		})
	}))
	mux.HandleFunc("/api/policy/customer/my-policies", b.authorized(models.CustomerRole, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Policy{{ID: 5, PolicyNumber: "POL-00005", PolicyType: "HEALTH"}})
	}))
	mux.HandleFunc("/api/claims/me", b.authorized(models.CustomerRole, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Claim{{ID: 3, PolicyNumber: "POL-00005", Status: models.ClaimStatusApproved}})
	}))
	mux.HandleFunc("/api/claims", b.authorized(models.CustomerRole, b.record))
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
	creds := gateway.LoginRequest{}
	_ = json.NewDecoder(r.Body).Decode(&creds)
	b.mu.Lock()
	user, found := b.users[creds.Username]
	if !found || user.password != creds.Password {
		b.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
		return
	}
	b.validTokens[user.token] = user.identity.Role
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, gateway.AuthResponse{
		Token:    user.token,
		Username: user.identity.Username,
		Role:     user.identity.Role,
		UserID:   user.identity.UserID,
	})
}

func (b *fakeBackend) authorized(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		tokenRole, valid := b.validTokens[token]
		b.mu.Unlock()
		if !valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		if tokenRole != role {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) expireTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validTokens = map[string]models.Role{}
}

func (b *fakeBackend) recordQuery(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastBody = map[string]string{"path": r.URL.Path, "query": r.URL.RawQuery}
}

// record stores the method, path and body of the request and answers with an empty object.
func (b *fakeBackend) record(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.lastBody = map[string]string{"method": r.Method, "path": r.URL.Path, "body": string(body)}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{})
}

// recordOr answers GET requests with the given record and records every other request.
func (b *fakeBackend) recordOr(record any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, record)
			return
		}
		b.record(w, r)
	}
}

func (b *fakeBackend) last() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastBody
}

func (b *fakeBackend) customers(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		req := models.CustomerCreateRequest{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username == "taken" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Username already exists"})
			return
		}
		b.mu.Lock()
		b.lastBody = map[string]string{"method": r.Method, "name": req.Name, "username": req.Username}
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, models.Customer{ID: 10, Name: req.Name, Email: req.Email})
		return
	}
	writeJSON(w, http.StatusOK, []models.Customer{{ID: 4, Name: "Carol", Email: "carol@example.org"}})
}

func (b *fakeBackend) policies(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		b.record(w, r)
		return
	}
	b.recordQuery(r)
	writeJSON(w, http.StatusOK, models.Page[models.Policy]{
		Content:     []models.Policy{{ID: 5, PolicyNumber: "POL-00005"}},
		CurrentPage: 1,
		TotalPages:  2,
		HasPrevious: true,
	})
}

type testPortal struct {
	echo    *echo.Echo
	server  *Server
	backend *fakeBackend
	repo    *db.RedisAdapter
}

func newTestPortal(t *testing.T) *testPortal {
	backend := newFakeBackend(t)
	repo := db.NewMockRedisAdapter()
	server, err := NewServer(
		WithServerConfig(config.ServerConfig{Port: 3000, SessionCookieName: testCookieName}),
		WithAPIConfig(config.APIConfig{Origin: backend.server.URL, BaseURL: "/api", Timeout: 5 * time.Second}),
		WithCredentialRepository(repo),
	)
	require.NoError(t, err)
	e := echo.New()
	tr, err := views.NewTemplateRenderer()
	require.NoError(t, err)
	tr.Register(e)
	server.RegisterHandlers(e)
	return &testPortal{echo: e, server: server, backend: backend, repo: repo}
}

// browser keeps the portal session cookie between requests.
type browser struct {
	t      *testing.T
	portal *testPortal
	cookie string
}

func (p *testPortal) browser(t *testing.T) *browser {
	return &browser{t: t, portal: p}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if b.cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: b.cookie})
	}
	rec := httptest.NewRecorder()
	b.portal.echo.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != testCookieName {
			continue
		}
		if cookie.MaxAge < 0 {
			b.cookie = ""
		} else {
			b.cookie = cookie.Value
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

func (b *browser) login(username, password string) *httptest.ResponseRecorder {
	return b.post("/login", url.Values{"username": {username}, "password": {password}})
}
