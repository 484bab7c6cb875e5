package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]byte(""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Client.BaseURL != DefaultBaseURL {
		t.Errorf("Expected base URL %q, got %q", DefaultBaseURL, cfg.Client.BaseURL)
	}
	if cfg.Client.Agent != DefaultAgent {
		t.Errorf("Expected agent %q, got %q", DefaultAgent, cfg.Client.Agent)
	}
	if cfg.Tracing.Enabled {
		t.Error("Expected tracing to be disabled by default")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	data := `
client:
  base_url: https://agents.example.com/
  agent: summarizer
  timeout: 45s
  headers:
    X-Request-Source: cli
  tls:
    insecure_skip_verify: true
logger:
  level: debug
  format: verbose
tracing:
  enabled: true
  exporter: stdout
  sampling_rate: 0.25
`
	cfg, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Client.BaseURL != "https://agents.example.com/" {
		t.Errorf("Expected base URL, got %q", cfg.Client.BaseURL)
	}
	if cfg.Client.Agent != "summarizer" {
		t.Errorf("Expected agent summarizer, got %q", cfg.Client.Agent)
	}
	if cfg.Client.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %s", cfg.Client.Timeout)
	}
	if cfg.Client.Headers["X-Request-Source"] != "cli" {
		t.Errorf("Expected header to be decoded, got %v", cfg.Client.Headers)
	}
	if cfg.Client.TLS == nil || !cfg.Client.TLS.InsecureSkipVerify {
		t.Errorf("Expected TLS insecure_skip_verify, got %+v", cfg.Client.TLS)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.Format != "verbose" {
		t.Errorf("Expected logger debug/verbose, got %+v", cfg.Logger)
	}
	if cfg.Tracing.SamplingRate != 0.25 {
		t.Errorf("Expected sampling rate 0.25, got %v", cfg.Tracing.SamplingRate)
	}
	if cfg.Tracing.ServiceName == "" {
		t.Error("Expected tracing defaults to be applied when enabled")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("ACP_TEST_URL", "http://10.0.0.5:8000")
	t.Setenv("ACP_TEST_TOKEN", "secret")

	data := `
client:
  base_url: ${ACP_TEST_URL}
  agent: ${ACP_TEST_AGENT:-echo}
  headers:
    Authorization: Bearer $ACP_TEST_TOKEN
`
	cfg, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Client.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("Expected expanded base URL, got %q", cfg.Client.BaseURL)
	}
	if cfg.Client.Agent != "echo" {
		t.Errorf("Expected default from ${VAR:-default}, got %q", cfg.Client.Agent)
	}
	if cfg.Client.Headers["Authorization"] != "Bearer secret" {
		t.Errorf("Expected expanded header, got %q", cfg.Client.Headers["Authorization"])
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"unknown key", "client:\n  base_uri: http://localhost:8000\n", "base_uri"},
		{"bad scheme", "client:\n  base_url: ftp://localhost\n", "base_url"},
		{"bad duration", "client:\n  timeout: soon\n", "timeout"},
		{"bad log level", "logger:\n  level: loud\n", "log level"},
		{"bad log format", "logger:\n  format: xml\n", "log format"},
		{"bad exporter", "tracing:\n  enabled: true\n  exporter: zipkin\n", "exporter"},
		{"malformed", "client: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acp.yaml")
	if err := os.WriteFile(path, []byte("client:\n  agent: chat\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Client.Agent != "chat" {
		t.Errorf("Expected agent chat, got %q", cfg.Client.Agent)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadDotEnvForConfig(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "ACP_DOTENV_NEW=from-file\nACP_DOTENV_SET=from-file\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ACP_DOTENV_SET", "from-env")
	t.Setenv("ACP_DOTENV_NEW", "")
	os.Unsetenv("ACP_DOTENV_NEW")

	if err := LoadDotEnvForConfig(filepath.Join(dir, "acp.yaml")); err != nil {
		t.Fatalf("LoadDotEnvForConfig() error = %v", err)
	}

	if got := os.Getenv("ACP_DOTENV_NEW"); got != "from-file" {
		t.Errorf("Expected ACP_DOTENV_NEW=from-file, got %q", got)
	}
	if got := os.Getenv("ACP_DOTENV_SET"); got != "from-env" {
		t.Errorf("Expected existing env to win, got %q", got)
	}
}
