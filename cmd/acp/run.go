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

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kadirpekel/acpclient/acp"
)

// DefaultMessage is sent when no text is given.
const DefaultMessage = "Howdy to echo from client!"

// RunCmd sends one message to an agent and prints the run output.
type RunCmd struct {
	Text        string        `arg:"" optional:"" default:"Howdy to echo from client!" help:"Message text."`
	BaseURL     string        `name:"base-url" help:"ACP server URL (default: config or http://localhost:8000)." placeholder:"URL"`
	Agent       string        `short:"a" help:"Agent name (default: config or echo)."`
	ContentType string        `name:"content-type" default:"text/plain" help:"MIME type of the message part."`
	SessionID   string        `name:"session-id" help:"Attach the run to an existing session." placeholder:"UUID"`
	Timeout     time.Duration `help:"Timeout of the HTTP exchange. The client imposes 60s unless config or this flag sets another; the transport has no timeout of its own."`
}

func (c *RunCmd) Run(a *app) error {
	var opts []acp.RunOption
	if c.SessionID != "" {
		id, err := uuid.Parse(c.SessionID)
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", c.SessionID, err)
		}
		opts = append(opts, acp.WithSessionID(id))
	}

	text := c.Text
	if text == "" {
		text = DefaultMessage
	}
	input := []acp.Message{acp.NewMessage(acp.NewPart(text, c.ContentType))}

	return runAgent(a.ctx, a.stdout,
		firstNonEmpty(c.BaseURL, a.cfg.Client.BaseURL),
		a.clientConfig(c.Timeout),
		firstNonEmpty(c.Agent, a.cfg.Client.Agent),
		input, opts...)
}

// runAgent opens a client scoped to this call, runs agent synchronously and
// writes the run output as one line. Nothing is written when the call fails.
func runAgent(ctx context.Context, w io.Writer, baseURL string, cfg *acp.ClientConfig, agent string, input []acp.Message, opts ...acp.RunOption) error {
	return acp.WithClient(baseURL, cfg, func(client *acp.Client) error {
		run, err := client.RunSync(ctx, agent, input, opts...)
		if err != nil {
			return err
		}
		slog.Info("Run completed", "run_id", run.RunID, "agent", agent, "messages", len(run.Output))

		_, err = fmt.Fprintln(w, acp.OutputText(run.Output))
		return err
	})
}
