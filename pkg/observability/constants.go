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

// Package observability provides OpenTelemetry tracing for ACP calls.
//
// Every client operation opens a client span named after the operation
// (acp.run.sync, acp.agents.list, ...). Spans are dropped unless a tracer is
// configured:
//
//	tracing:
//	  enabled: true
//	  exporter: otlp
//	  endpoint: localhost:4317
//	  sampling_rate: 1.0
package observability

// InstrumentationName names the tracer used by the acp package.
const InstrumentationName = "github.com/kadirpekel/acpclient/acp"

// =============================================================================
// Span Names
// =============================================================================

const (
	SpanPing       = "acp.ping"
	SpanAgentsList = "acp.agents.list"
	SpanAgentGet   = "acp.agents.get"
	SpanRunSync    = "acp.run.sync"
	SpanRunAsync   = "acp.run.async"
	SpanRunGet     = "acp.run.get"
	SpanRunCancel  = "acp.run.cancel"
)

// =============================================================================
// Attributes
// =============================================================================

const (
	// AttrServerAddress is the base URL of the ACP server.
	AttrServerAddress = "server.address"

	// AttrAgentName is the agent addressed by the call.
	AttrAgentName = "acp.agent.name"

	// AttrAgentCount is the number of agents returned by discovery.
	AttrAgentCount = "acp.agent.count"

	// AttrRunID is the server-assigned run ID.
	AttrRunID = "acp.run.id"

	// AttrRunStatus is the run status as last reported by the server.
	AttrRunStatus = "acp.run.status"

	// AttrOutputMessages is the number of output messages of a run.
	AttrOutputMessages = "acp.run.output_messages"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultServiceName is the default service name for tracing.
	DefaultServiceName = "acp-client"

	// DefaultSamplingRate is the default trace sampling rate.
	DefaultSamplingRate = 1.0

	// DefaultOTLPEndpoint is the default OTLP endpoint.
	DefaultOTLPEndpoint = "localhost:4317"

	// ExporterOTLP sends spans to an OTLP gRPC collector.
	ExporterOTLP = "otlp"

	// ExporterStdout writes spans as JSON, to stderr by default.
	ExporterStdout = "stdout"
)
