package ingredients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
)

// BuildResultJSONSchema returns the JSON Schema every outgoing Result must satisfy.
func BuildResultJSONSchema() map[string]any {
	flags := []any{string(constants.Healthy), string(constants.Unhealthy)}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"percent", "health_flag", "chips", "note", "flags"},
		"properties": map[string]any{
			"percent":     map[string]any{"type": "integer", "enum": []any{35, 55, 70, 90}},
			"health_flag": map[string]any{"type": "string", "enum": flags},
			"note":        map[string]any{"type": "string", "minLength": 1},
			"chips": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"type", "label"},
					"properties": map[string]any{
						"type":  map[string]any{"type": "string", "enum": flags},
						"label": map[string]any{"type": "string", "minLength": 1},
					},
				},
			},
			"flags": map[string]any{
				"type":     "array",
				"maxItems": len(rules),
				"items": map[string]any{
					"type":     "object",
					"required": []string{"keyword", "note"},
					"properties": map[string]any{
						"keyword": map[string]any{"type": "string", "minLength": 1},
						"note":    map[string]any{"type": "string", "minLength": 1},
					},
				},
			},
		},
	}
}

var (
	resultSchemaOnce sync.Once
	resultSchema     *jsonschema.Schema
	resultSchemaErr  error
)

func compiledResultSchema() (*jsonschema.Schema, error) {
	resultSchemaOnce.Do(func() {
		b, err := json.Marshal(BuildResultJSONSchema())
		if err != nil {
			resultSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("result.json", bytes.NewReader(b)); err != nil {
			resultSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		resultSchema, resultSchemaErr = compiler.Compile("result.json")
	})
	return resultSchema, resultSchemaErr
}

// ValidateJSON checks raw result JSON against the result schema.
func ValidateJSON(data []byte) error {
	schema, err := compiledResultSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}

// ValidateResult marshals r and validates it against the result schema.
func ValidateResult(r Result) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return ValidateJSON(b)
}
