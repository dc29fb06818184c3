// Package schema holds the JSON contract for extraction results and a small
// validator used before persisting or returning them.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ContactSchema describes the JSON shape of an extracted contact record.
// Optional fields are omitted entirely when absent, never empty strings.
var ContactSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "confidence", "created_at"},
	"properties": map[string]any{
		"id":          map[string]any{"type": "string", "minLength": 36, "maxLength": 36},
		"name":        map[string]any{"type": "string", "minLength": 1},
		"phone":       map[string]any{"type": "string", "pattern": "^[0-9]+$"},
		"email":       map[string]any{"type": "string", "pattern": "^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$"},
		"source_path": map[string]any{"type": "string"},
		"source_hash": map[string]any{"type": "string"},
		"confidence":  map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		"created_at":  map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

// ValidateContact validates a marshaled contact record against ContactSchema.
func ValidateContact(data []byte) error {
	return ValidateJSONAgainstSchema(ContactSchema, data)
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
