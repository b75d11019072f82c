package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/taurgis/mcpconform/internal/value"
)

// AnalyzeToolListingSchemas scans an expected tools/list document for
// inputSchema fragments and flags two distinct problems: a fragment
// that is not itself a structurally valid JSON Schema (a malformed
// embedded schema is an authoring mistake class of its own), and a
// fragment that schema normalization
// NormalizeInputSchema would have silently patched — here the harness
// flags rather than fixes it, since this is a test expectation, not a
// live server response the gateway must keep serving.
func AnalyzeToolListingSchemas(doc value.Value) []Suggestion {
	var out []Suggestion
	tools := findToolsArray(doc)
	for i, tool := range tools {
		if tool.Kind() != value.KindObject {
			continue
		}
		name := toolName(tool, i)
		schemaVal, ok := tool.Object().Get("inputSchema")
		path := fmt.Sprintf("$.tools[%d].inputSchema", i)

		if !ok {
			out = append(out, Suggestion{
				Path:       path,
				Kind:       KindSchemaNormalized,
				Message:    fmt.Sprintf("tool %q has no inputSchema; a server returning this would be silently normalized to an empty object schema", name),
				Correction: `add an explicit "inputSchema": {"type": "object", "properties": {}}`,
			})
			continue
		}

		out = append(out, checkSchemaFragment(schemaVal, path, name)...)
	}
	return out
}

func findToolsArray(doc value.Value) []value.Value {
	if doc.Kind() != value.KindObject {
		return nil
	}
	tools, ok := doc.Object().Get("tools")
	if !ok || tools.Kind() != value.KindArray {
		return nil
	}
	return tools.Array()
}

func toolName(tool value.Value, index int) string {
	if n, ok := tool.Object().Get("name"); ok && n.Kind() == value.KindString {
		return n.String()
	}
	return "#" + strconv.Itoa(index)
}

func checkSchemaFragment(schemaVal value.Value, path, toolName string) []Suggestion {
	var out []Suggestion

	if schemaVal.Kind() == value.KindObject {
		typeVal, hasType := schemaVal.Object().Get("type")
		isObjectType := hasType && typeVal.Kind() == value.KindString && typeVal.String() == "object"
		_, hasProperties := schemaVal.Object().Get("properties")
		_, hasAdditional := schemaVal.Object().Get("additionalProperties")
		if isObjectType && !hasProperties && !hasAdditional {
			out = append(out, Suggestion{
				Path:       path,
				Kind:       KindSchemaNormalized,
				Message:    fmt.Sprintf("tool %q declares an object inputSchema with neither properties nor additionalProperties", toolName),
				Correction: `add "properties": {} (or additionalProperties) to make the schema self-describing`,
			})
		}
	}

	if err := validateSchemaStructure(schemaVal); err != nil {
		out = append(out, Suggestion{
			Path:       path,
			Kind:       KindSchemaMalformed,
			Message:    fmt.Sprintf("tool %q's inputSchema is not a structurally valid JSON Schema: %s", toolName, err),
			Correction: "fix the schema so it compiles under JSON Schema Draft 7",
		})
	}

	return out
}

var fragmentCounter int

// validateSchemaStructure compiles schemaVal as a standalone JSON
// Schema document, surfacing compiler errors (bad $ref, non-boolean
// "required", unknown keyword types, etc.) without validating any
// instance against it.
func validateSchemaStructure(schemaVal value.Value) error {
	encoded, err := json.Marshal(value.ToInterface(schemaVal))
	if err != nil {
		return fmt.Errorf("marshaling schema fragment: %w", err)
	}

	fragmentCounter++
	resourceID := fmt.Sprintf("mcpconform/fragment-%d.json", fragmentCounter)

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(resourceID, bytes.NewReader(encoded)); err != nil {
		return err
	}
	if _, err := compiler.Compile(resourceID); err != nil {
		return stripCompilerNoise(err)
	}
	return nil
}

// stripCompilerNoise trims the compiler's resource-id prefix from its
// error text, which would otherwise leak the internal fragment counter
// into a suggestion message.
func stripCompilerNoise(err error) error {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 && strings.Contains(msg[:idx], "mcpconform/fragment-") {
		return fmt.Errorf("%s", msg[idx+2:])
	}
	return err
}
