package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Schema describes the object a structured call must return.
// Definition is a JSON schema object with "properties" and "required".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Decode checks raw model output against the schema and unmarshals it into out.
// Boolean fields sent as "true"/"false" strings are coerced.
func (s *Schema) Decode(raw string, out any) error {
	raw = stripCodeFence(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return &SchemaValidationError{Schema: s.Name, Reason: fmt.Sprintf("output is not a JSON object: %v", err)}
	}

	props, _ := s.Definition["properties"].(map[string]any)
	for _, name := range s.required() {
		if _, ok := obj[name]; !ok {
			return &SchemaValidationError{Schema: s.Name, Reason: fmt.Sprintf("missing required field %q", name)}
		}
	}

	for name, value := range obj {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		coerced, err := checkProperty(name, prop, value)
		if err != nil {
			return &SchemaValidationError{Schema: s.Name, Reason: err.Error()}
		}
		obj[name] = coerced
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return &SchemaValidationError{Schema: s.Name, Reason: err.Error()}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &SchemaValidationError{Schema: s.Name, Reason: err.Error()}
	}
	return nil
}

func (s *Schema) required() []string {
	switch req := s.Definition["required"].(type) {
	case []string:
		return req
	case []any:
		names := make([]string, 0, len(req))
		for _, r := range req {
			if name, ok := r.(string); ok {
				names = append(names, name)
			}
		}
		return names
	}
	return nil
}

func checkProperty(name string, prop map[string]any, value any) (any, error) {
	typ, _ := prop["type"].(string)
	switch typ {
	case "string":
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %q must be a string", name)
		}
		if minLen, ok := toInt(prop["minLength"]); ok && utf8.RuneCountInString(strings.TrimSpace(str)) < minLen {
			return nil, fmt.Errorf("field %q must not be empty", name)
		}
		return str, nil
	case "boolean":
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, fmt.Errorf("field %q must be a boolean", name)
	case "integer", "number":
		if _, ok := value.(float64); !ok {
			return nil, fmt.Errorf("field %q must be a number", name)
		}
	case "object":
		if _, ok := value.(map[string]any); !ok {
			return nil, fmt.Errorf("field %q must be an object", name)
		}
	case "array":
		if _, ok := value.([]any); !ok {
			return nil, fmt.Errorf("field %q must be an array", name)
		}
	}
	return value, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// Some models wrap JSON in a markdown fence even when asked not to
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
