package fraud

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// payloadSchema constrains the extracted_data form field sent upstream.
func payloadSchema() map[string]any {
	str := func() map[string]any { return map[string]any{"type": "string", "minLength": 1} }
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"studentName":       str(),
			"studentRoll":       str(),
			"certificateNumber": str(),
			"institutionName":   str(),
			"courseName":        str(),
			"marks":             map[string]any{"type": "string", "pattern": `^[0-9.]+$`},
			"dateIssued":        str(),
			"uin":               str(),
		},
	}
}

// responseSchema is the subset of the service reply we rely on.
func responseSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"success"},
		"properties": map[string]any{
			"success": map[string]any{"type": "boolean"},
			"error":   map[string]any{"type": "string"},
			"fraud_analysis": map[string]any{
				"type":     "object",
				"required": []string{"risk_level"},
				"properties": map[string]any{
					"risk_level":        map[string]any{"type": "string"},
					"fraud_probability": map[string]any{"type": "number"},
					"confidence_score":  map[string]any{"type": "number"},
				},
			},
		},
	}
}

// compiled schemas are built once; the maps above are static.
var (
	payloadValidator  = mustCompile("payload.json", payloadSchema())
	responseValidator = mustCompile("response.json", responseSchema())
)

func mustCompile(name string, schemaMap map[string]any) *jsonschema.Schema {
	s, err := compile(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return s
}

func compile(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateJSON validates raw JSON bytes against a compiled schema.
func validateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
