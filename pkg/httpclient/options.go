package httpclient

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cast"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Knawat-Go-SDK- V1.0.0"
)

// Options holds the per-client transport settings.
type Options struct {
	VerifySSL bool
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns the settings used when the caller overrides nothing.
func DefaultOptions() Options {
	return Options{
		VerifySSL: false,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// OptionsFromMap merges a loosely typed option mapping over the defaults.
// Recognized keys are verify_ssl, timeout (seconds) and user_agent; anything else is ignored.
func OptionsFromMap(m map[string]any) Options {
	opts := DefaultOptions()
	for k, v := range m {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "verify_ssl":
			if b, err := cast.ToBoolE(v); err == nil {
				opts.VerifySSL = b
			}
		case "timeout":
			if secs, err := cast.ToFloat64E(v); err == nil && secs > 0 {
				opts.Timeout = time.Duration(secs * float64(time.Second))
			}
		case "user_agent":
			if ua := strings.TrimSpace(cast.ToString(v)); ua != "" {
				opts.UserAgent = ua
			}
		}
	}
	return opts
}

func (o Options) normalize() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(o.UserAgent) == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// Option configures a Client.
type Option func(*Client)

// WithOptions replaces the transport settings wholesale.
func WithOptions(o Options) Option {
	return func(c *Client) {
		c.opts = o
	}
}

// WithVerifySSL toggles TLS peer and host verification.
func WithVerifySSL(verify bool) Option {
	return func(c *Client) {
		c.opts.VerifySSL = verify
	}
}

// WithTimeout sets both the connect and the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.opts.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.opts.UserAgent = ua
	}
}

// WithLogger sets the logger used for token and request diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = ensureLogger(log)
	}
}

// WithStrictAuth makes New fail with ErrTokenUnavailable when no token is returned.
func WithStrictAuth(strict bool) Option {
	return func(c *Client) {
		c.strictAuth = strict
	}
}

// WithHTTPClient injects a preconfigured resty client. Timeout, TLS and
// keep-alive settings from Options are not applied to it.
func WithHTTPClient(rc *resty.Client) Option {
	return func(c *Client) {
		c.http = rc
	}
}
