package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// errNotWrapped is returned by unwrapPrimitive when content is not a
// {"type": ..., "value": ...} envelope.
var errNotWrapped = errors.New("not a schema-wrapped value")

// ParseStringAs parses content into a value of type T.
//
// Strings, booleans and numbers are converted with strconv, also accepting a
// schema envelope around the value. Every other kind is decoded as JSON; when
// that fails the content is repaired with jsonrepair and decoded again, and as
// a last attempt schema envelopes are unwrapped recursively.
//
// Example:
//
//	type Args struct {
//	    A float64 `json:"a"`
//	}
//	args, err := ParseStringAs[Args](`{a: 15.5,}`) // repaired to {"a": 15.5}
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := unwrapPrimitive(content); err == nil {
				content = unwrapped
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		err := setPrimitive(target, content)
		if err == nil {
			return result, nil
		}
		if unwrapped, unwrapErr := unwrapPrimitive(content); unwrapErr == nil {
			if retryErr := setPrimitive(target, unwrapped); retryErr == nil {
				return result, nil
			}
		}
		return result, err

	default:
		err := json.Unmarshal([]byte(content), &result)
		if err == nil {
			return result, nil
		}

		repaired, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: %w (repair error: %v)", result, err, repairErr)
		}

		// Decode into a fresh value so a partial first attempt does not leak.
		var repairedResult T
		err = json.Unmarshal([]byte(repaired), &repairedResult)
		if err == nil {
			return repairedResult, nil
		}

		if unwrapped, unwrapErr := unwrapSchemaValues(repaired); unwrapErr == nil {
			var unwrappedResult T
			if json.Unmarshal([]byte(unwrapped), &unwrappedResult) == nil {
				return unwrappedResult, nil
			}
		}

		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (content: %s)", result, err, truncate(content, 200))
	}
}

func setPrimitive(target reflect.Value, content string) error {
	content = strings.TrimSpace(content)
	switch target.Kind() {
	case reflect.Bool:
		v, err := strconv.ParseBool(content)
		if err != nil {
			return fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(content, target.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(content, 10, target.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(v)
	default:
		v, err := strconv.ParseUint(content, 10, target.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse content as uint: %w", err)
		}
		target.SetUint(v)
	}
	return nil
}

// unwrapPrimitive returns the string form of the value inside a
// {"type": ..., "value": ...} envelope.
func unwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}
	if !isEnvelope(data) {
		return "", errNotWrapped
	}

	switch v := data["value"].(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// unwrapSchemaValues replaces every envelope in the document with its value:
//
//	{"a": {"type": "number", "value": 15}} -> {"a": 15}
func unwrapSchemaValues(content string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}
	b, err := json.Marshal(unwrap(data))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if isEnvelope(v) {
			return unwrap(v["value"])
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = unwrap(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = unwrap(val)
		}
		return out
	default:
		return data
	}
}

func isEnvelope(m map[string]any) bool {
	_, hasType := m["type"]
	_, hasValue := m["value"]
	return hasType && hasValue && len(m) == 2
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
