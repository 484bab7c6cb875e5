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

// Package acpclient is a client for agents served over the Agent
// Communication Protocol (ACP).
//
// # Quick Start
//
// Start an ACP server exposing an "echo" agent on localhost:8000, then:
//
//	go run ./cmd/acp
//
// which prints the agent's answer to "Howdy to echo from client!".
//
// # Packages
//
//   - acp: data model and HTTP client
//   - acp/acptest: in-process ACP server for tests
//   - pkg/config: YAML configuration with environment expansion
//   - pkg/logger, pkg/observability, pkg/httpclient: logging, tracing and transport
//
// # Library use
//
//	err := acp.WithClient("http://localhost:8000", nil, func(c *acp.Client) error {
//		run, err := c.RunSync(ctx, "echo", []acp.Message{
//			acp.NewMessage(acp.TextPart("Howdy to echo from client!")),
//		})
//		if err != nil {
//			return err
//		}
//		fmt.Println(acp.OutputText(run.Output))
//		return nil
//	})
package acpclient
