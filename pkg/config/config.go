// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the ACP client configuration.
//
// Example:
//
//	client:
//	  base_url: ${ACP_BASE_URL:-http://localhost:8000}
//	  agent: echo
//	  timeout: 30s
//	  headers:
//	    X-Request-Source: cli
//	  tls:
//	    ca_certificate: /etc/ssl/acp-ca.pem
//	logger:
//	  level: info
//	tracing:
//	  enabled: true
//	  exporter: stdout
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kadirpekel/acpclient/pkg/httpclient"
	"github.com/kadirpekel/acpclient/pkg/logger"
	"github.com/kadirpekel/acpclient/pkg/observability"
)

const (
	// DefaultBaseURL is the address of a locally started ACP server.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultAgent is the agent invoked when none is configured.
	DefaultAgent = "echo"
)

// Config is the root configuration.
type Config struct {
	// Client configures the connection to the ACP server.
	Client ClientConfig `yaml:"client,omitempty"`

	// Logger configures logging.
	Logger LoggerConfig `yaml:"logger,omitempty"`

	// Tracing configures OpenTelemetry tracing.
	Tracing observability.TracingConfig `yaml:"tracing,omitempty"`
}

// ClientConfig configures the ACP client.
type ClientConfig struct {
	// BaseURL of the ACP server.
	// Default: http://localhost:8000
	BaseURL string `yaml:"base_url,omitempty"`

	// Agent is the agent invoked by the run command.
	// Default: echo
	Agent string `yaml:"agent,omitempty"`

	// Timeout bounds each HTTP exchange. Zero uses the client default.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// TLS configures certificate verification for https servers.
	TLS *httpclient.TLSConfig `yaml:"tls,omitempty"`
}

// LoggerConfig configures logging.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-file, --log-format)
//  2. Environment variables (ACP_LOG_LEVEL, ACP_LOG_FILE, ACP_LOG_FORMAT)
//  3. Config file (logger section)
//  4. Defaults (warn level, simple format, stderr)
type LoggerConfig struct {
	// Level specifies the log level (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// File specifies the log file path. Empty means stderr.
	File string `yaml:"file,omitempty"`

	// Format specifies the log format: simple, verbose or json.
	Format string `yaml:"format,omitempty"`
}

// SetDefaults applies default values to the whole configuration.
func (c *Config) SetDefaults() {
	c.Client.SetDefaults()
	if c.Tracing.Enabled {
		c.Tracing.SetDefaults()
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Client.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("client: %w", err))
	}
	if err := c.Logger.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logger: %w", err))
	}
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	return errors.Join(errs...)
}

// SetDefaults applies default values to ClientConfig.
func (c *ClientConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Agent == "" {
		c.Agent = DefaultAgent
	}
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid base_url %q: expected http(s)://host[:port]", c.BaseURL)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// Validate checks the logger configuration.
func (c *LoggerConfig) Validate() error {
	if c.Level != "" {
		if _, err := logger.ParseLevel(c.Level); err != nil {
			return err
		}
	}
	if !logger.ValidFormat(c.Format) {
		return fmt.Errorf("invalid log format %q (valid: simple, verbose, json)", c.Format)
	}
	return nil
}
