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
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/kadirpekel/acpclient/pkg/config"
)

// SchemaCmd generates the JSON Schema of the configuration file.
// Output is written to stdout so it can be redirected.
type SchemaCmd struct {
	Compact bool `help:"Compact JSON output (no indentation)."`
}

// Run executes the schema generation command.
func (c *SchemaCmd) Run(a *app) error {
	reflector := &jsonschema.Reflector{
		// Disallow additional properties, mirroring the loader's unknown key check
		AllowAdditionalProperties: false,
		// Inline all definitions (no $ref)
		DoNotReference: true,
		// Config structs are tagged for YAML only
		FieldNameTag: "yaml",
		Mapper:       durationSchema,
	}

	schema := reflector.Reflect(&config.Config{})
	schema.Title = "ACP Client Configuration Schema"
	schema.Description = "Configuration file accepted by acp --config"
	schema.Examples = []any{
		map[string]any{
			"client": map[string]any{
				"base_url": "${ACP_BASE_URL:-http://localhost:8000}",
				"agent":    "echo",
				"timeout":  "30s",
			},
			"logger": map[string]any{
				"level": "info",
			},
		},
	}

	encoder := json.NewEncoder(a.stdout)
	if !c.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(schema); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return nil
}

// durationPattern matches the strings accepted by time.ParseDuration.
const durationPattern = `^(0|([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+)$`

// durationSchema describes time.Duration fields as strings like "30s",
// the form the config loader decodes.
func durationSchema(t reflect.Type) *jsonschema.Schema {
	if t != reflect.TypeOf(time.Duration(0)) {
		return nil
	}
	return &jsonschema.Schema{
		Type:     "string",
		Pattern:  durationPattern,
		Examples: []any{"30s", "1m30s"},
	}
}
