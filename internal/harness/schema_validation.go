package harness

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchemaJSON is embedded rather than fetched: unlike the
// gateway's remote mcp-gateway-config schema, the harness has no
// network dependency, so the schema travels with the binary.
const configSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://mcpconform/schema/harness-config.json",
  "type": "object",
  "required": ["command"],
  "properties": {
    "command": {"type": "string", "minLength": 1},
    "args": {"type": "array", "items": {"type": "string"}},
    "working_directory": {"type": "string"},
    "env": {"type": "object", "additionalProperties": {"type": "string"}},
    "protocol_version": {"type": "string"},
    "ready_pattern": {"type": "string"},
    "startup_timeout_ms": {"type": "integer", "minimum": 0},
    "response_timeout_ms": {"type": "integer", "minimum": 0},
    "shutdown_timeout_ms": {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

var compiledConfigSchema *jsonschema.Schema

func configSchema() (*jsonschema.Schema, error) {
	if compiledConfigSchema != nil {
		return compiledConfigSchema, nil
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("harness-config.json", strings.NewReader(configSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to register embedded harness config schema: %w", err)
	}
	schema, err := compiler.Compile("harness-config.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded harness config schema: %w", err)
	}
	compiledConfigSchema = schema
	return schema, nil
}

// ValidateConfigDocument runs a raw TOML-decoded-to-JSON config document
// (or any map produced from one) through the embedded schema, catching
// authoring mistakes (unknown keys, wrong types) before a spawn attempt.
func ValidateConfigDocument(raw map[string]interface{}) error {
	schema, err := configSchema()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal config document: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("failed to re-parse config document: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("harness config schema validation failed at %s: %s", ve.InstanceLocation, ve.Message)
		}
		return fmt.Errorf("harness config schema validation failed: %w", err)
	}
	return nil
}
