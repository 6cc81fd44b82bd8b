package google

import "time"

// defaultUserAgent identifies this library to the Google API.
const defaultUserAgent = "Calbridge/0.1.0"

// Default tuning values.
const (
	defaultTimeoutSeconds  = 30
	defaultMaxRetries      = 3
	defaultCacheTTL        = 60 * time.Minute
	defaultRateLimitMax    = 100
	defaultRateLimitWindow = time.Second
)

// Config tunes the Google connector's HTTP behaviour and caching.
type Config struct {
	// UserAgent is sent with every API request.
	UserAgent string

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int

	// MaxRetries caps retry attempts for transient failures.
	MaxRetries int

	// CacheTTL is how long the calendar list stays cached. Event and
	// free/busy entries use a fixed five minute TTL.
	CacheTTL time.Duration

	// CacheEnabled turns response caching on or off.
	CacheEnabled bool

	// RateLimitMax is the number of requests allowed per window.
	RateLimitMax int

	// RateLimitWindow is the fixed rate limit window length.
	RateLimitWindow time.Duration
}

// DefaultConfig returns the standard connector tuning.
func DefaultConfig() Config {
	return Config{
		UserAgent:       defaultUserAgent,
		TimeoutSeconds:  defaultTimeoutSeconds,
		MaxRetries:      defaultMaxRetries,
		CacheTTL:        defaultCacheTTL,
		CacheEnabled:    true,
		RateLimitMax:    defaultRateLimitMax,
		RateLimitWindow: defaultRateLimitWindow,
	}
}

// WithUserAgent overrides the User-Agent header.
func (c Config) WithUserAgent(ua string) Config {
	c.UserAgent = ua
	return c
}

// WithTimeoutSeconds overrides the per-request timeout.
func (c Config) WithTimeoutSeconds(secs int) Config {
	c.TimeoutSeconds = secs
	return c
}

// WithMaxRetries overrides the transient failure retry cap.
func (c Config) WithMaxRetries(n int) Config {
	c.MaxRetries = n
	return c
}

// WithCacheTTL overrides the calendar list cache TTL.
func (c Config) WithCacheTTL(ttl time.Duration) Config {
	c.CacheTTL = ttl
	return c
}

// WithoutCache disables response caching entirely.
func (c Config) WithoutCache() Config {
	c.CacheEnabled = false
	return c
}
