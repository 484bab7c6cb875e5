package httpclient

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type stubTransport struct{}

func (stubTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody}, nil
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		options  []Option
		validate func(t *testing.T, client *http.Client)
	}{
		{
			name:    "default_configuration",
			options: []Option{},
			validate: func(t *testing.T, client *http.Client) {
				if client.Timeout != DefaultTimeout {
					t.Errorf("Expected timeout=%v, got %v", DefaultTimeout, client.Timeout)
				}
				transport, ok := client.Transport.(*http.Transport)
				if !ok {
					t.Fatalf("Expected *http.Transport, got %T", client.Transport)
				}
				if transport == http.DefaultTransport {
					t.Error("Expected a dedicated transport, got http.DefaultTransport")
				}
			},
		},
		{
			name:    "custom_timeout",
			options: []Option{WithTimeout(5 * time.Second)},
			validate: func(t *testing.T, client *http.Client) {
				if client.Timeout != 5*time.Second {
					t.Errorf("Expected timeout=5s, got %v", client.Timeout)
				}
			},
		},
		{
			name:    "empty_tls_config_keeps_default_settings",
			options: []Option{WithTLSConfig(&TLSConfig{})},
			validate: func(t *testing.T, client *http.Client) {
				transport, ok := client.Transport.(*http.Transport)
				if !ok {
					t.Fatalf("Expected *http.Transport, got %T", client.Transport)
				}
				if transport.TLSClientConfig != nil && transport.TLSClientConfig.InsecureSkipVerify {
					t.Error("Expected certificate verification to stay enabled")
				}
			},
		},
		{
			name:    "insecure_tls",
			options: []Option{WithTLSConfig(&TLSConfig{InsecureSkipVerify: true})},
			validate: func(t *testing.T, client *http.Client) {
				transport, ok := client.Transport.(*http.Transport)
				if !ok {
					t.Fatalf("Expected *http.Transport, got %T", client.Transport)
				}
				if !transport.TLSClientConfig.InsecureSkipVerify {
					t.Error("Expected InsecureSkipVerify to be set")
				}
			},
		},
		{
			name: "custom_transport_wins",
			options: []Option{
				WithTLSConfig(&TLSConfig{InsecureSkipVerify: true}),
				WithTransport(stubTransport{}),
			},
			validate: func(t *testing.T, client *http.Client) {
				if _, ok := client.Transport.(stubTransport); !ok {
					t.Errorf("Expected stubTransport, got %T", client.Transport)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.options...)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			tt.validate(t, client)
		})
	}
}

func TestNew_MissingCACertificate(t *testing.T) {
	_, err := New(WithTLSConfig(&TLSConfig{CACertificate: filepath.Join(t.TempDir(), "missing.pem")}))
	if err == nil {
		t.Fatal("Expected error for missing CA certificate")
	}
}

func TestNew_InvalidCACertificate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := New(WithTLSConfig(&TLSConfig{CACertificate: path}))
	if err == nil {
		t.Fatal("Expected error for invalid CA certificate")
	}
}

func TestNew_CustomCATrustsServer(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "ca.pem")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})
	if err := os.WriteFile(path, certPEM, 0o600); err != nil {
		t.Fatal(err)
	}

	client, err := New(WithTLSConfig(&TLSConfig{CACertificate: path}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("GET with custom CA failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}
