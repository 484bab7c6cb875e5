package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

// TLSConfig holds TLS configuration options
type TLSConfig struct {
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty" json:"insecure_skip_verify,omitempty"` // dev/test only
	CACertificate      string `yaml:"ca_certificate,omitempty" json:"ca_certificate,omitempty"`             // path to a PEM file
}

// IsSet reports whether the config changes anything from the defaults.
func (c *TLSConfig) IsSet() bool {
	return c != nil && (c.InsecureSkipVerify || c.CACertificate != "")
}

// ConfigureTLS creates an http.Transport with TLS configuration.
// The transport is cloned from http.DefaultTransport so proxy and dial
// settings are preserved.
func ConfigureTLS(config *TLSConfig) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	if config == nil {
		return transport, nil
	}

	if config.CACertificate != "" {
		caCert, err := os.ReadFile(config.CACertificate)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate from %s: %w", config.CACertificate, err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", config.CACertificate)
		}

		transport.TLSClientConfig.RootCAs = caCertPool
	}

	if config.InsecureSkipVerify {
		slog.Warn("TLS certificate verification disabled", "insecure_skip_verify", true)
		transport.TLSClientConfig.InsecureSkipVerify = true
	}

	return transport, nil
}
