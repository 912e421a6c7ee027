package config

import "fmt"

type ServerConfig struct {
	Host              string
	Port              int
	RateLimits        RateLimits
	AllowOrigin       []string
	SessionCookieName string
	SecureCookies     bool
}

func (c ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Port)
	}
	if c.SessionCookieName == "" {
		return fmt.Errorf("the session cookie name cannot be empty")
	}
	return c.RateLimits.Validate()
}

type RefreshConfig struct {
	Proactive           bool
	IntervalSeconds     int
	ExpiryMarginSeconds int
}

func (c RefreshConfig) Validate() error {
	if !c.Proactive {
		return nil
	}
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("refresh interval seconds (%d) needs to be greater than 0", c.IntervalSeconds)
	}
	if c.ExpiryMarginSeconds <= 0 {
		return fmt.Errorf("refresh expiry margin seconds (%d) needs to be greater than 0", c.ExpiryMarginSeconds)
	}
	return nil
}

type SentryConfig struct {
	Enabled     bool
	Dsn         RedactedString
	Environment string
	SampleRate  float64
}

type PrometheusConfig struct {
	Enabled bool
	Port    int
}

type MonitoringConfig struct {
	Sentry     SentryConfig
	Prometheus PrometheusConfig
}

type RateLimits struct {
	Enabled bool
	Rate    float64
	Burst   int
}

func (r RateLimits) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Rate <= 0 {
		return fmt.Errorf("rate limit rate (%v) needs to be greater than 0", r.Rate)
	}
	if r.Burst <= 0 {
		return fmt.Errorf("rate limit burst (%d) needs to be greater than 0", r.Burst)
	}
	return nil
}
