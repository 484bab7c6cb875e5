// Package httpclient builds the *http.Client used to reach agent servers.
package httpclient

import (
	"net/http"
	"time"
)

// DefaultTimeout applies when no timeout option is given.
const DefaultTimeout = 60 * time.Second

type options struct {
	timeout   time.Duration
	tls       *TLSConfig
	transport http.RoundTripper
}

// Option configures New.
type Option func(*options)

// WithTimeout sets the overall per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithTLSConfig applies certificate options. A nil or empty config keeps the
// default transport settings.
func WithTLSConfig(config *TLSConfig) Option {
	return func(o *options) {
		o.tls = config
	}
}

// WithTransport replaces the transport. TLS options are ignored when set.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// New returns an *http.Client. Requests are sent once; failed requests are
// not retried.
func New(opts ...Option) (*http.Client, error) {
	o := &options{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	client := &http.Client{
		Timeout: o.timeout,
	}

	switch {
	case o.transport != nil:
		client.Transport = o.transport
	case o.tls.IsSet():
		transport, err := ConfigureTLS(o.tls)
		if err != nil {
			return nil, err
		}
		client.Transport = transport
	default:
		// Own pool, so CloseIdleConnections only drops this client's connections.
		client.Transport = http.DefaultTransport.(*http.Transport).Clone()
	}

	return client, nil
}
