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

// Package acp implements a client for the Agent Communication Protocol (ACP).
//
// ACP exposes agents over plain REST: agents are discovered under /agents and
// invoked by creating a run under /runs. A run carries a list of input
// messages and, once it completes, a list of output messages.
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
package acp

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// MESSAGES - Unit of input and output
// ============================================================================

// Role identifies who produced a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// ContentEncoding describes how MessagePart.Content is encoded.
type ContentEncoding string

const (
	EncodingPlain  ContentEncoding = "plain"
	EncodingBase64 ContentEncoding = "base64"
)

// ContentTypeText is the MIME type used for plain text parts.
const ContentTypeText = "text/plain"

// MessagePart is one typed piece of content inside a Message.
type MessagePart struct {
	Name            string          `json:"name,omitempty"`
	ContentType     string          `json:"content_type"`
	Content         string          `json:"content,omitempty"`
	ContentEncoding ContentEncoding `json:"content_encoding,omitempty"`
	ContentURL      string          `json:"content_url,omitempty"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
}

// Message is an ordered list of parts forming one turn.
type Message struct {
	Role        Role          `json:"role,omitempty"`
	Parts       []MessagePart `json:"parts"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// ============================================================================
// RUNS - One invocation of an agent
// ============================================================================

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunStatusCreated    RunStatus = "created"
	RunStatusInProgress RunStatus = "in-progress"
	RunStatusAwaiting   RunStatus = "awaiting"
	RunStatusCancelling RunStatus = "cancelling"
	RunStatusCancelled  RunStatus = "cancelled"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// IsTerminal reports whether no further transitions can happen.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	default:
		return false
	}
}

// RunMode selects how the server answers a run creation request.
type RunMode string

const (
	RunModeSync  RunMode = "sync"
	RunModeAsync RunMode = "async"
)

// RunCreateRequest is the body of POST /runs.
type RunCreateRequest struct {
	AgentName string     `json:"agent_name"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Input     []Message  `json:"input"`
	Mode      RunMode    `json:"mode"`
}

// Run is the server's view of an agent invocation.
type Run struct {
	AgentName  string     `json:"agent_name"`
	SessionID  *uuid.UUID `json:"session_id,omitempty"`
	RunID      uuid.UUID  `json:"run_id"`
	Status     RunStatus  `json:"status"`
	Output     []Message  `json:"output"`
	Error      *Error     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// ============================================================================
// DISCOVERY
// ============================================================================

// AgentManifest describes an agent exposed by a server.
type AgentManifest struct {
	Name               string         `json:"name"`
	Description        string         `json:"description,omitempty"`
	InputContentTypes  []string       `json:"input_content_types,omitempty"`
	OutputContentTypes []string       `json:"output_content_types,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// AgentsListResponse is the body of GET /agents.
type AgentsListResponse struct {
	Agents []AgentManifest `json:"agents"`
}
