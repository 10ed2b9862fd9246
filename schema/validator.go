package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/youssefsiam38/meetpg"
)

// Decode fills defaults into the JSON object input, validates it against s
// and unmarshals the result into dst. Validation failures are returned as
// *meetpg.Error with CodeBadRequest and the offending field.
func Decode(s Schema, input json.RawMessage, dst any) error {
	values, err := parseObject(input)
	if err != nil {
		return err
	}
	if err := validateMap(s, values); err != nil {
		return err
	}

	normalized, err := json.Marshal(values)
	if err != nil {
		return meetpg.Internal(fmt.Errorf("failed to re-encode %s input: %w", s.Name, err))
	}
	if err := json.Unmarshal(normalized, dst); err != nil {
		return meetpg.BadRequest("", fmt.Sprintf("invalid input: %v", err))
	}
	return nil
}

// Normalize validates the typed value pointed to by v against s, filling
// schema defaults into zero-valued fields tagged omitempty.
func Normalize(s Schema, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return meetpg.BadRequest("", fmt.Sprintf("invalid input: %v", err))
	}
	return Decode(s, raw, v)
}

// FromValues converts URL query values into a JSON object for s. Fields
// declared as integer or number are parsed; values that do not parse are
// kept as strings so validation reports them.
func FromValues(s Schema, q url.Values) json.RawMessage {
	obj := make(map[string]any, len(q))
	for name, def := range s.Properties {
		if !q.Has(name) {
			continue
		}
		raw := q.Get(name)
		if raw == "" && !s.isRequired(name) {
			// Empty form controls mean "not set".
			continue
		}
		switch def.Type {
		case "integer":
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				obj[name] = n
				continue
			}
		case "number":
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				obj[name] = f
				continue
			}
		case "boolean":
			if b, err := strconv.ParseBool(raw); err == nil {
				obj[name] = b
				continue
			}
		}
		obj[name] = raw
	}
	out, _ := json.Marshal(obj)
	return out
}

func parseObject(input json.RawMessage) (map[string]any, error) {
	if len(strings.TrimSpace(string(input))) == 0 {
		return map[string]any{}, nil
	}
	var values map[string]any
	if err := json.Unmarshal(input, &values); err != nil {
		return nil, meetpg.BadRequest("", fmt.Sprintf("invalid JSON input: %v", err))
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

func validateMap(s Schema, values map[string]any) error {
	if s.Type != "object" {
		return meetpg.Internal(fmt.Errorf("schema %s: type must be 'object', got '%s'", s.Name, s.Type))
	}

	// Unknown fields are dropped rather than rejected.
	for name := range values {
		if _, ok := s.Properties[name]; !ok {
			delete(values, name)
		}
	}

	for _, name := range s.fieldOrder() {
		def := s.Properties[name]
		value, exists := values[name]

		if !exists || value == nil {
			if def.Default != nil {
				values[name] = def.Default
				continue
			}
			if s.isRequired(name) {
				return meetpg.BadRequest(name, requiredMessage(name, def))
			}
			if exists && !def.Nullable {
				return meetpg.BadRequest(name, fmt.Sprintf("Expected %s, received null", def.Type))
			}
			continue
		}

		if err := validateProperty(name, def, value); err != nil {
			return err
		}
		if sv, ok := value.(string); ok && def.Trim {
			values[name] = strings.TrimSpace(sv)
		}
		if def.Type == "integer" {
			// Keep integers integral so they decode into int fields.
			if f, ok := value.(float64); ok {
				values[name] = int64(f)
			}
		}
	}
	return nil
}

func validateProperty(name string, def PropertyDef, value any) error {
	if err := validateType(name, def.Type, value); err != nil {
		return err
	}

	if len(def.Enum) > 0 {
		strVal, _ := value.(string)
		valid := false
		for _, e := range def.Enum {
			if strVal == e {
				valid = true
				break
			}
		}
		if !valid {
			return meetpg.BadRequest(name, fmt.Sprintf("Invalid %s: expected one of %s", name, strings.Join(def.Enum, ", ")))
		}
	}

	if def.Type == "number" || def.Type == "integer" {
		numVal := value.(float64)
		if def.Minimum != nil && numVal < *def.Minimum {
			return meetpg.BadRequest(name, fmt.Sprintf("%s must be at least %s", fieldLabel(name), formatNumber(*def.Minimum)))
		}
		if def.Maximum != nil && numVal > *def.Maximum {
			return meetpg.BadRequest(name, fmt.Sprintf("%s must be at most %s", fieldLabel(name), formatNumber(*def.Maximum)))
		}
	}

	if def.Type == "string" {
		strVal := value.(string)
		if def.Trim {
			strVal = strings.TrimSpace(strVal)
		}
		n := utf8.RuneCountInString(strVal)
		if def.MinLength != nil && n < *def.MinLength {
			return meetpg.BadRequest(name, requiredMessage(name, def))
		}
		if def.MaxLength != nil && n > *def.MaxLength {
			return meetpg.BadRequest(name, fmt.Sprintf("%s must be at most %d characters", fieldLabel(name), *def.MaxLength))
		}
	}

	return nil
}

func validateType(name string, expectedType string, value any) error {
	switch expectedType {
	case "string":
		if _, ok := value.(string); !ok {
			return meetpg.BadRequest(name, fmt.Sprintf("Expected string, received %s", jsonType(value)))
		}
	case "number":
		if _, ok := value.(float64); !ok {
			return meetpg.BadRequest(name, fmt.Sprintf("Expected number, received %s", jsonType(value)))
		}
	case "integer":
		v, ok := value.(float64)
		if !ok {
			return meetpg.BadRequest(name, fmt.Sprintf("Expected integer, received %s", jsonType(value)))
		}
		if v != float64(int64(v)) {
			return meetpg.BadRequest(name, "Expected integer, received float")
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return meetpg.BadRequest(name, fmt.Sprintf("Expected boolean, received %s", jsonType(value)))
		}
	}
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func requiredMessage(name string, def PropertyDef) string {
	if def.Message != "" {
		return def.Message
	}
	return fieldLabel(name) + " is required"
}

// fieldLabel turns a camelCase field name into a sentence-case label:
// "pageSize" becomes "Page size".
func fieldLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "null"
	}
}
