package acptest

import (
	"context"

	"github.com/kadirpekel/acpclient/acp"
)

// Agent is an agent served by Server.
type Agent interface {
	Manifest() acp.AgentManifest
	Run(ctx context.Context, input []acp.Message) ([]acp.Message, error)
}

// EchoAgent answers every run with its input, re-attributed to the agent.
type EchoAgent struct{}

// Manifest implements Agent.
func (EchoAgent) Manifest() acp.AgentManifest {
	return acp.AgentManifest{
		Name:               "echo",
		Description:        "Echoes everything",
		InputContentTypes:  []string{"*/*"},
		OutputContentTypes: []string{"*/*"},
	}
}

// Run implements Agent.
func (EchoAgent) Run(_ context.Context, input []acp.Message) ([]acp.Message, error) {
	output := make([]acp.Message, 0, len(input))
	for _, msg := range input {
		parts := make([]acp.MessagePart, len(msg.Parts))
		copy(parts, msg.Parts)
		output = append(output, acp.Message{Role: acp.RoleAgent, Parts: parts})
	}
	return output, nil
}

// AgentFunc adapts a function to Agent.
type AgentFunc struct {
	Name string
	Fn   func(ctx context.Context, input []acp.Message) ([]acp.Message, error)
}

// Manifest implements Agent.
func (a AgentFunc) Manifest() acp.AgentManifest {
	return acp.AgentManifest{Name: a.Name}
}

// Run implements Agent.
func (a AgentFunc) Run(ctx context.Context, input []acp.Message) ([]acp.Message, error) {
	return a.Fn(ctx, input)
}
