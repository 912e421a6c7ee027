// Package gateway is the authenticated HTTP client through which every part of the portal reaches the backend.
//
// It attaches the stored bearer token to outgoing requests. When the backend answers 401 the token is
// refreshed once through the refresh endpoint and the request is replayed. Only one refresh is ever in
// flight per client; other requests that hit a 401 in the meantime wait for its outcome and are replayed
// with the new token, or fail with the same error if the refresh fails. A failed refresh ends the session.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/capstone-insurance/portal/internal/config"
	"github.com/capstone-insurance/portal/internal/models"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// CredentialStore persists the session credential of a single user.
type CredentialStore interface {
	Load(ctx context.Context) (models.SessionCredential, error)
	Save(ctx context.Context, credential models.SessionCredential) error
	Clear(ctx context.Context) error
}

type Client struct {
	baseURL          *url.URL
	httpClient       *http.Client
	timeout          time.Duration
	store            CredentialStore
	limiter          *rate.Limiter
	idGenerator      models.IDGenerator
	clientID         string
	onSessionExpired func(error)

	mu         sync.Mutex
	refreshing bool
	queue      []*pendingRequest
}

type ClientOption func(*Client) error

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return err
		}
		if !parsed.IsAbs() {
			return fmt.Errorf("the base URL %q has to be absolute", baseURL)
		}
		c.baseURL = parsed
		return nil
	}
}

// WithAPIConfig sets the base URL, the timeout and the outbound rate limit from the configuration.
func WithAPIConfig(apiConfig config.APIConfig) ClientOption {
	return func(c *Client) error {
		baseURL, err := apiConfig.ResolvedBaseURL()
		if err != nil {
			return err
		}
		c.baseURL = baseURL
		c.timeout = apiConfig.Timeout
		if apiConfig.RateLimit.Enabled {
			c.limiter = rate.NewLimiter(rate.Limit(apiConfig.RateLimit.Rate), apiConfig.RateLimit.Burst)
		}
		return nil
	}
}

// WithHTTPClient sets the underlying client. If it has no cookie jar the gateway uses its own copy of
// the client with an in-memory jar, since the refresh call depends on the cookie set at login.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = client
		return nil
	}
}

func WithCookieJar(jar http.CookieJar) ClientOption {
	return func(c *Client) error {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		output := *c.httpClient
		output.Jar = jar
		c.httpClient = &output
		return nil
	}
}

func WithCredentialStore(store CredentialStore) ClientOption {
	return func(c *Client) error {
		c.store = store
		return nil
	}
}

// WithSessionExpiredHandler registers the callback invoked once for every failed refresh,
// after the stored credential has been cleared.
func WithSessionExpiredHandler(handler func(error)) ClientOption {
	return func(c *Client) error {
		c.onSessionExpired = handler
		return nil
	}
}

func WithRateLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) error {
		c.limiter = limiter
		return nil
	}
}

func WithRequestIDGenerator(generator models.IDGenerator) ClientOption {
	return func(c *Client) error {
		c.idGenerator = generator
		return nil
	}
}

// WithClientID sets the value of the X-Client-ID header, a random UUID is used by default.
func WithClientID(clientID string) ClientOption {
	return func(c *Client) error {
		c.clientID = clientID
		return nil
	}
}

func NewClient(options ...ClientOption) (*Client, error) {
	c := Client{}
	for _, opt := range options {
		err := opt(&c)
		if err != nil {
			return nil, err
		}
	}
	if c.baseURL == nil {
		return nil, fmt.Errorf("the API base URL is not set")
	}
	if c.store == nil {
		return nil, fmt.Errorf("credential store is not initialized")
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		output := *c.httpClient
		output.Jar = jar
		c.httpClient = &output
	}
	if c.idGenerator == nil {
		c.idGenerator = models.ULIDGenerator{}
	}
	if c.clientID == "" {
		c.clientID = uuid.NewString()
	}
	slog.Debug("GATEWAY", "message", "client created", "baseURL", c.baseURL.String(), "clientID", c.clientID)
	return &c, nil
}

func (c *Client) BaseURL() *url.URL {
	output := *c.baseURL
	return &output
}

// currentToken returns the stored bearer token or an empty string if there is none.
func (c *Client) currentToken(ctx context.Context) string {
	credential, err := c.store.Load(ctx)
	if err != nil {
		return ""
	}
	return credential.Token
}
