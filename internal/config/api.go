package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type APIConfig struct {
	// Origin is used to resolve a relative BaseURL, the same way a browser resolves it against the page origin
	Origin    string
	BaseURL   string
	Timeout   time.Duration
	RateLimit RateLimits
}

// ResolvedBaseURL returns the absolute URL that all API paths are appended to.
func (c APIConfig) ResolvedBaseURL() (*url.URL, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("cannot parse the API base URL %q: %w", c.BaseURL, err)
	}
	if !base.IsAbs() {
		origin, err := url.Parse(c.Origin)
		if err != nil {
			return nil, fmt.Errorf("cannot parse the API origin %q: %w", c.Origin, err)
		}
		if !origin.IsAbs() {
			return nil, fmt.Errorf("the API origin %q has to be an absolute URL when the base URL is relative", c.Origin)
		}
		base = origin.ResolveReference(base)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")
	return base, nil
}

func (c APIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("the API base URL cannot be empty")
	}
	if _, err := c.ResolvedBaseURL(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("the API timeout cannot be negative (%s)", c.Timeout)
	}
	return c.RateLimit.Validate()
}
