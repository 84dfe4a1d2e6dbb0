// Package hms provides a Go client for the hospital management system REST
// API: a single request gateway plus one typed service per backend resource.
package hms

import "time"

// Default client settings.
const (
	DefaultBaseURL    = "http://localhost:8080/api"
	DefaultMaxRetries = 1
	DefaultPageSize   = 20
	DefaultUserAgent  = "hmsctl"
)

// Config holds all configuration for the HMS API client.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// Timeout is the per-request HTTP timeout. Zero means no timeout
	// beyond the transport default.
	Timeout time.Duration

	// MaxRetries is how many times a GET is re-sent after a transport error,
	// a 5xx or a 429. Other 4xx responses and non-GET requests are never
	// retried. There is no delay between attempts.
	MaxRetries int

	// UserAgent is sent with every request.
	UserAgent string

	// StrictEnvelope turns a `success: false` envelope into an
	// *EnvelopeError. Off by default: the backend signals failure through
	// the HTTP status.
	StrictEnvelope bool
}

// DefaultConfig returns a Config with the console defaults: retry once,
// no client timeout.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		MaxRetries: DefaultMaxRetries,
		UserAgent:  DefaultUserAgent,
	}
}

// WithBaseURL returns a copy of the config with the specified base URL.
func (c Config) WithBaseURL(u string) Config {
	c.BaseURL = u
	return c
}

// WithTimeout returns a copy of the config with the specified timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}

// WithRetries returns a copy of the config with the specified retry count.
func (c Config) WithRetries(maxRetries int) Config {
	c.MaxRetries = maxRetries
	return c
}
