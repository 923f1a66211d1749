package promptkit

import (
	"encoding/json"
	"strings"

	genai "google.golang.org/genai"

	"adforge/internal/llmclient"
)

// Field declares one output field of a stage. The provider-side response
// schema and the post-parse validation are both derived from the same
// declaration, so call sites never author nested schema maps by hand.
type Field struct {
	Name        string
	Type        string // string | number | integer | boolean | []string | object | []object
	Required    bool
	Description string
	Enum        []string
	// Fields describes the element shape for object / []object types.
	Fields []Field
}

// ObjectSchema derives a genai response schema from a field list.
func ObjectSchema(fields []Field) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	var required []string
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		props[name] = fieldSchema(f)
		if f.Required {
			required = append(required, name)
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

func fieldSchema(f Field) *genai.Schema {
	switch f.Type {
	case "number":
		return &genai.Schema{Type: genai.TypeNumber, Description: f.Description}
	case "integer":
		return &genai.Schema{Type: genai.TypeInteger, Description: f.Description}
	case "boolean":
		return &genai.Schema{Type: genai.TypeBoolean, Description: f.Description}
	case "[]string":
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: f.Description,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	case "object":
		s := ObjectSchema(f.Fields)
		s.Description = f.Description
		return s
	case "[]object":
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: f.Description,
			Items:       ObjectSchema(f.Fields),
		}
	default:
		s := &genai.Schema{Type: genai.TypeString, Description: f.Description}
		if len(f.Enum) > 0 {
			s.Enum = f.Enum
		}
		return s
	}
}

// Validate checks a raw payload against the declared fields: every
// required field must be present and non-empty. A violation is reported
// as a gateway SchemaError so the stage fails hard.
func Validate(stage string, raw json.RawMessage, fields []Field) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return &llmclient.SchemaError{Stage: stage, Reason: "response is not a JSON object: " + err.Error()}
	}
	var missing []string
	for _, f := range fields {
		if !f.Required {
			continue
		}
		v, ok := obj[f.Name]
		if !ok || isEmptyValue(v) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &llmclient.SchemaError{Stage: stage, Missing: missing}
	}
	return nil
}

func isEmptyValue(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", `""`, "[]", "{}":
		return true
	}
	return false
}
