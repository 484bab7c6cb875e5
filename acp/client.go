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

package acp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kadirpekel/acpclient/pkg/httpclient"
	"github.com/kadirpekel/acpclient/pkg/observability"
)

const (
	// DefaultTimeout bounds a single HTTP exchange when no timeout is configured.
	DefaultTimeout = 60 * time.Second

	// DefaultPollInterval is used by WaitRun when interval is zero.
	DefaultPollInterval = time.Second
)

// ClientConfig contains configuration for the ACP client.
type ClientConfig struct {
	// Timeout for each HTTP exchange. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient replaces the client built from Timeout and TLS.
	HTTPClient *http.Client

	// Headers are added to every request.
	Headers map[string]string

	// TLS configures certificate verification for https base URLs.
	TLS *httpclient.TLSConfig
}

// Client talks to a single ACP server. It is safe for concurrent use.
// Close releases its idle connections; the client is unusable afterwards.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	tracer     trace.Tracer

	closeOnce sync.Once
	closed    atomic.Bool
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, cfg *ClientConfig) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: expected http(s)://host[:port]", baseURL)
	}

	if cfg == nil {
		cfg = &ClientConfig{}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient, err = httpclient.New(
			httpclient.WithTimeout(timeout),
			httpclient.WithTLSConfig(cfg.TLS),
		)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		headers:    cfg.Headers,
		tracer:     otel.Tracer(observability.InstrumentationName),
	}, nil
}

// WithClient opens a client, runs fn with it and closes the client on every
// exit path, including a panic inside fn.
func WithClient(baseURL string, cfg *ClientConfig, fn func(*Client) error) (err error) {
	client, err := NewClient(baseURL, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(client)
}

// BaseURL returns the server URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ============================================================================
// DISCOVERY
// ============================================================================

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) (err error) {
	ctx, span := c.startSpan(ctx, observability.SpanPing)
	defer func() { endSpan(span, err) }()

	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

// Agents lists the agents exposed by the server.
func (c *Client) Agents(ctx context.Context) (_ []AgentManifest, err error) {
	ctx, span := c.startSpan(ctx, observability.SpanAgentsList)
	defer func() { endSpan(span, err) }()

	var resp AgentsListResponse
	if err := c.do(ctx, http.MethodGet, "/agents", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	span.SetAttributes(attribute.Int(observability.AttrAgentCount, len(resp.Agents)))
	return resp.Agents, nil
}

// Agent fetches the manifest of a single agent.
func (c *Client) Agent(ctx context.Context, name string) (_ *AgentManifest, err error) {
	ctx, span := c.startSpan(ctx, observability.SpanAgentGet, attribute.String(observability.AttrAgentName, name))
	defer func() { endSpan(span, err) }()

	var manifest AgentManifest
	if err := c.do(ctx, http.MethodGet, "/agents/"+url.PathEscape(name), nil, &manifest); err != nil {
		return nil, fmt.Errorf("failed to get agent %s: %w", name, err)
	}
	return &manifest, nil
}

// ============================================================================
// RUNS
// ============================================================================

// RunOption customizes a run creation request.
type RunOption func(*RunCreateRequest)

// WithSessionID attaches the run to an existing session.
func WithSessionID(id uuid.UUID) RunOption {
	return func(r *RunCreateRequest) {
		r.SessionID = &id
	}
}

// RunSync runs agent on input and blocks until the server reports the result.
// A run that finished in the failed state is returned together with an error
// wrapping its *Error.
func (c *Client) RunSync(ctx context.Context, agent string, input []Message, opts ...RunOption) (_ *Run, err error) {
	ctx, span := c.startSpan(ctx, observability.SpanRunSync, attribute.String(observability.AttrAgentName, agent))
	defer func() { endSpan(span, err) }()

	run, err := c.createRun(ctx, agent, input, RunModeSync, opts)
	if err != nil {
		return nil, err
	}
	annotateRun(span, run)

	if run.Status == RunStatusFailed {
		if run.Error != nil {
			return run, fmt.Errorf("run %s failed: %w", run.RunID, run.Error)
		}
		return run, fmt.Errorf("run %s failed", run.RunID)
	}
	return run, nil
}

// RunAsync starts agent on input and returns as soon as the server accepts
// the run. Use Run or WaitRun to observe its progress.
func (c *Client) RunAsync(ctx context.Context, agent string, input []Message, opts ...RunOption) (_ *Run, err error) {
	ctx, span := c.startSpan(ctx, observability.SpanRunAsync, attribute.String(observability.AttrAgentName, agent))
	defer func() { endSpan(span, err) }()

	run, err := c.createRun(ctx, agent, input, RunModeAsync, opts)
	if err != nil {
		return nil, err
	}
	annotateRun(span, run)
	return run, nil
}

// Run fetches the current state of a run.
func (c *Client) Run(ctx context.Context, runID uuid.UUID) (_ *Run, err error) {
	ctx, span := c.startSpan(ctx, observability.SpanRunGet, attribute.String(observability.AttrRunID, runID.String()))
	defer func() { endSpan(span, err) }()

	var run Run
	if err := c.do(ctx, http.MethodGet, "/runs/"+runID.String(), nil, &run); err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	annotateRun(span, &run)
	return &run, nil
}

// CancelRun asks the server to cancel a run.
func (c *Client) CancelRun(ctx context.Context, runID uuid.UUID) (_ *Run, err error) {
	ctx, span := c.startSpan(ctx, observability.SpanRunCancel, attribute.String(observability.AttrRunID, runID.String()))
	defer func() { endSpan(span, err) }()

	var run Run
	if err := c.do(ctx, http.MethodPost, "/runs/"+runID.String()+"/cancel", nil, &run); err != nil {
		return nil, fmt.Errorf("failed to cancel run %s: %w", runID, err)
	}
	annotateRun(span, &run)
	return &run, nil
}

// WaitRun polls a run until it reaches a terminal status or ctx is done.
func (c *Client) WaitRun(ctx context.Context, runID uuid.UUID, interval time.Duration) (*Run, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		run, err := c.Run(ctx, runID)
		if err != nil {
			return nil, err
		}
		if run.Status.IsTerminal() {
			return run, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) createRun(ctx context.Context, agent string, input []Message, mode RunMode, opts []RunOption) (*Run, error) {
	if agent == "" {
		return nil, fmt.Errorf("agent name is required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	req := RunCreateRequest{
		AgentName: agent,
		Input:     input,
		Mode:      mode,
	}
	for _, opt := range opts {
		opt(&req)
	}

	var run Run
	if err := c.do(ctx, http.MethodPost, "/runs", &req, &run); err != nil {
		return nil, fmt.Errorf("failed to run agent %s: %w", agent, err)
	}
	return &run, nil
}

// Close releases idle connections. It is idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.httpClient.CloseIdleConnections()
		slog.Debug("ACP client closed", "base_url", c.baseURL)
	})
	return nil
}

// ============================================================================
// TRANSPORT
// ============================================================================

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	slog.Debug("ACP request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newHTTPError(resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(resp.Body)
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}

	var protoErr Error
	if err := json.Unmarshal(body, &protoErr); err == nil && protoErr.Code != "" {
		httpErr.Err = &protoErr
	}
	return httpErr
}

func (c *Client) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String(observability.AttrServerAddress, c.baseURL))
	return c.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func annotateRun(span trace.Span, run *Run) {
	span.SetAttributes(
		attribute.String(observability.AttrRunID, run.RunID.String()),
		attribute.String(observability.AttrRunStatus, string(run.Status)),
		attribute.Int(observability.AttrOutputMessages, len(run.Output)),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
