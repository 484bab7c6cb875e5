package main

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/acpclient/acp"
	"github.com/kadirpekel/acpclient/acp/acptest"
)

// runCLI parses args like main does and executes the selected command.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cli := CLI{}
	parser, err := kong.New(&cli, kong.Name("acp"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}

	var stdout bytes.Buffer
	err = execute(context.Background(), kctx, &cli, &stdout)
	return stdout.String(), err
}

func TestRun_EchoesDefaultMessage(t *testing.T) {
	srv := acptest.NewServer(acptest.EchoAgent{})
	defer srv.Close()

	out, err := runCLI(t, "--base-url", srv.URL())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out, "Howdy to echo from client!") {
		t.Errorf("Expected echoed message in output, got %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("Expected exactly one output line, got %q", out)
	}
}

func TestRun_SendsOneMessageWithOnePart(t *testing.T) {
	srv := acptest.NewServer(acptest.EchoAgent{})
	defer srv.Close()

	if _, err := runCLI(t, "run", "--base-url", srv.URL()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("Expected 1 run request, got %d", len(reqs))
	}
	req := reqs[0]
	if req.AgentName != "echo" {
		t.Errorf("Expected agent echo, got %q", req.AgentName)
	}
	if req.Mode != acp.RunModeSync {
		t.Errorf("Expected sync mode, got %q", req.Mode)
	}
	if len(req.Input) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(req.Input))
	}
	if len(req.Input[0].Parts) != 1 {
		t.Fatalf("Expected 1 part, got %d", len(req.Input[0].Parts))
	}
	part := req.Input[0].Parts[0]
	if part.Content != DefaultMessage || part.ContentType != "text/plain" {
		t.Errorf("Expected {%q, text/plain}, got {%q, %q}", DefaultMessage, part.Content, part.ContentType)
	}
}

func TestRun_UnreachableServer(t *testing.T) {
	out, err := runCLI(t, "--base-url", "http://127.0.0.1:1", "--timeout", "2s")
	if err == nil {
		t.Fatal("Expected error for unreachable server")
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Errorf("Expected *url.Error, got %T: %v", err, err)
	}
	if out != "" {
		t.Errorf("Expected no output on failure, got %q", out)
	}
}

func TestRun_FlagsAndConfig(t *testing.T) {
	srv := acptest.NewServer(acptest.EchoAgent{}, acptest.AgentFunc{
		Name: "shout",
		Fn: func(_ context.Context, in []acp.Message) ([]acp.Message, error) {
			return []acp.Message{{Role: acp.RoleAgent, Parts: []acp.MessagePart{acp.TextPart(strings.ToUpper(in[0].Text()))}}}, nil
		},
	})
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "acp.yaml")
	cfgData := "client:\n  base_url: " + srv.URL() + "\n  agent: shout\n"
	if err := os.WriteFile(cfgPath, []byte(cfgData), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", cfgPath, "run", "hello there")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "HELLO THERE\n" {
		t.Errorf("Expected agent from config, got %q", out)
	}

	out, err = runCLI(t, "--config", cfgPath, "run", "--agent", "echo", "hello there")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "hello there\n" {
		t.Errorf("Expected --agent to override config, got %q", out)
	}
}

func TestRun_FailedRunPrintsNothing(t *testing.T) {
	srv := acptest.NewServer(acptest.AgentFunc{
		Name: "broken",
		Fn: func(context.Context, []acp.Message) ([]acp.Message, error) {
			return nil, errors.New("boom")
		},
	})
	defer srv.Close()

	out, err := runCLI(t, "--base-url", srv.URL(), "--agent", "broken")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected run failure, got %v", err)
	}
	if out != "" {
		t.Errorf("Expected no output, got %q", out)
	}
}

func TestRun_InvalidSessionID(t *testing.T) {
	_, err := runCLI(t, "--base-url", "http://127.0.0.1:1", "--session-id", "nope")
	if err == nil || !strings.Contains(err.Error(), "invalid session id") {
		t.Errorf("Expected session id error, got %v", err)
	}
}
