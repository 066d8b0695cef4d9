package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema describes the JSON shape expected from one endpoint.
type Schema struct {
	// Name identifies this schema and keys the compile cache.
	Name       string
	Definition map[string]any
}

func nullable(typ string) map[string]any {
	return map[string]any{"type": []any{typ, "null"}}
}

func str() map[string]any     { return map[string]any{"type": "string"} }
func integer() map[string]any { return map[string]any{"type": "integer"} }

func object(required []any, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func arrayOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

var templateDef = object(
	[]any{"id", "title", "description", "challenge_type", "difficulty"},
	map[string]any{
		"id":                  integer(),
		"title":               str(),
		"description":         str(),
		"associated_skill_id": nullable("integer"),
		"challenge_type":      map[string]any{"enum": []any{"text_response", "checkbox_completion", "photo_upload"}},
		"difficulty":          map[string]any{"enum": []any{"easy", "medium", "hard"}},
		"is_active":           map[string]any{"type": "boolean"},
	},
)

var completionDef = object(
	[]any{"id", "challenge_template_id", "status"},
	map[string]any{
		"id":                    integer(),
		"user_id":               integer(),
		"challenge_template_id": integer(),
		"challenge_title":       nullable("string"),
		"status":                str(),
		"completed_at":          nullable("string"),
		"user_response":         nullable("string"),
	},
)

var contentDef = object(
	[]any{"id", "title", "url", "content_type"},
	map[string]any{
		"id":               integer(),
		"title":            str(),
		"description":      nullable("string"),
		"url":              str(),
		"content_type":     str(),
		"category_id":      nullable("integer"),
		"author_name":      nullable("string"),
		"duration_minutes": nullable("integer"),
	},
)

var categoryDef = object(
	[]any{"id", "name"},
	map[string]any{
		"id":          integer(),
		"name":        str(),
		"description": nullable("string"),
	},
)

// Response schemas per endpoint.
var (
	templateSchema       = &Schema{Name: "challenge-template", Definition: templateDef}
	templateListSchema   = &Schema{Name: "challenge-template-list", Definition: arrayOf(templateDef)}
	completionSchema     = &Schema{Name: "challenge-completion", Definition: completionDef}
	completionListSchema = &Schema{Name: "challenge-completion-list", Definition: arrayOf(completionDef)}
	contentSchema        = &Schema{Name: "mind-content", Definition: contentDef}
	contentListSchema    = &Schema{Name: "mind-content-list", Definition: arrayOf(contentDef)}
	categoryListSchema   = &Schema{Name: "mind-content-category-list", Definition: arrayOf(categoryDef)}
)

var healthSchema = &Schema{Name: "health", Definition: object(
	[]any{"status"},
	map[string]any{"status": str(), "timestamp": str()},
)}

var loginSchema = &Schema{Name: "login", Definition: object(
	[]any{"access_token"},
	map[string]any{"access_token": str(), "user_id": integer(), "username": str()},
)}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse validates raw JSON against the given Schema.
// Returns nil if no schema is provided or validation passes.
// Returns *InvalidResponseError on failure.
func validateResponse(schema *Schema, raw []byte) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidResponseError{
			Body: raw,
			Err:  fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return &InvalidResponseError{
			Body: raw,
			Err:  fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &InvalidResponseError{
			Body: raw,
			Err:  fmt.Errorf("schema validation failed: %w", err),
		}
	}

	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain JSON values, so round-trip the Go literal.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
