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
	"fmt"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kadirpekel/acpclient"
	"github.com/kadirpekel/acpclient/acp"
)

// AgentsCmd lists the agents of a server.
type AgentsCmd struct {
	BaseURL string        `name:"base-url" help:"ACP server URL." placeholder:"URL"`
	Timeout time.Duration `help:"Timeout of the HTTP exchange."`
}

func (c *AgentsCmd) Run(a *app) error {
	return acp.WithClient(firstNonEmpty(c.BaseURL, a.cfg.Client.BaseURL), a.clientConfig(c.Timeout), func(client *acp.Client) error {
		agents, err := client.Agents(a.ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDESCRIPTION")
		for _, agent := range agents {
			fmt.Fprintf(tw, "%s\t%s\n", agent.Name, agent.Description)
		}
		return tw.Flush()
	})
}

// PingCmd checks that a server answers.
type PingCmd struct {
	BaseURL string        `name:"base-url" help:"ACP server URL." placeholder:"URL"`
	Timeout time.Duration `help:"Timeout of the HTTP exchange."`
}

func (c *PingCmd) Run(a *app) error {
	baseURL := firstNonEmpty(c.BaseURL, a.cfg.Client.BaseURL)
	return acp.WithClient(baseURL, a.clientConfig(c.Timeout), func(client *acp.Client) error {
		start := time.Now()
		if err := client.Ping(a.ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintf(a.stdout, "%s is up (%s)\n", baseURL, time.Since(start).Round(time.Millisecond))
		return err
	})
}

// ValidateCmd validates the configuration given with --config.
type ValidateCmd struct {
	// PrintConfig prints the expanded configuration
	PrintConfig bool `short:"p" name:"print-config" help:"Print the expanded configuration (with defaults applied and env vars resolved)."`
}

// Run executes the validate command. Loading already validated the file.
func (c *ValidateCmd) Run(cli *CLI, a *app) error {
	if !c.PrintConfig {
		source := cli.Config
		if source == "" {
			source = "defaults"
		}
		_, err := fmt.Fprintf(a.stdout, "Configuration is valid: %s\n", source)
		return err
	}

	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(a.cfg); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	_, err := fmt.Fprintln(a.stdout, acpclient.GetVersion().String())
	return err
}
