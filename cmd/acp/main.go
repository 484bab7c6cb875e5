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

// Command acp calls agents served over the Agent Communication Protocol.
//
// Usage:
//
//	acp                                   # ask the echo agent on localhost:8000
//	acp run "Summarize this" --agent summarizer --base-url http://agents:8000
//	acp agents --config acp.yaml
//	acp --trace stdout ping
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/acpclient/acp"
	"github.com/kadirpekel/acpclient/pkg/config"
	"github.com/kadirpekel/acpclient/pkg/observability"
)

// CLI defines the command-line interface.
type CLI struct {
	Run      RunCmd      `cmd:"" default:"withargs" help:"Send one message to an agent and print its output (default)."`
	Agents   AgentsCmd   `cmd:"" help:"List the agents exposed by the server."`
	Ping     PingCmd     `cmd:"" help:"Check that the server is reachable."`
	Validate ValidateCmd `cmd:"" help:"Validate configuration file."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Schema   SchemaCmd   `cmd:"" help:"Generate JSON Schema for the configuration file."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error). Default: warn."`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple, verbose, json). Default: simple."`
	Trace     string `help:"Export traces: stdout (written to stderr) or otlp." placeholder:"EXPORTER"`
}

// app is bound into every command's Run method.
type app struct {
	ctx    context.Context
	cfg    *config.Config
	stdout io.Writer
}

// clientConfig builds the ACP client configuration. A non-zero timeout
// overrides the configured one.
func (a *app) clientConfig(timeout time.Duration) *acp.ClientConfig {
	if timeout == 0 {
		timeout = a.cfg.Client.Timeout
	}
	return &acp.ClientConfig{
		Timeout: timeout,
		Headers: a.cfg.Client.Headers,
		TLS:     a.cfg.Client.TLS,
	}
}

func main() {
	_ = config.LoadDotEnv()

	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("acp"),
		kong.Description("Call agents over the Agent Communication Protocol"),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := execute(ctx, kctx, &cli, os.Stdout)
	stop()
	kctx.FatalIfErrorf(err)
}

// execute loads configuration, sets up logging and tracing, then runs the
// selected command. Command output goes to stdout; everything else goes to
// stderr or the log file.
func execute(ctx context.Context, kctx *kong.Context, cli *CLI, stdout io.Writer) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	cleanup, err := initLogger(cli.LogLevel, cli.LogFile, cli.LogFormat, &cfg.Logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if cli.Trace != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = cli.Trace
	}
	tracer, err := observability.NewTracer(ctx, &cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	return kctx.Run(cli, &app{ctx: ctx, cfg: cfg, stdout: stdout})
}

// loadConfig loads the config file when one is given, otherwise defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	_ = config.LoadDotEnvForConfig(path)

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
