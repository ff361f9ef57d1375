package utils

import (
	"encoding/json"
	"fmt"
	"reflect"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ValidateJSON unmarshals jsonData into schema and checks that every
// required field was populated. A field counts as required when its Go
// type is not a pointer, slice, or map — that's the convention FactMap
// and the phase-2 line-item structs follow: optional values (most
// extracted facts, since documents rarely carry every field) are
// pointers, and only structurally-required fields (like DocumentType)
// are bare values.
func ValidateJSON(jsonData string, schema interface{}) error {
	if err := json.Unmarshal([]byte(jsonData), schema); err != nil {
		return fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}

	v := reflect.ValueOf(schema)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map:
			continue // optional by convention
		}
		if field.IsZero() {
			return fmt.Errorf("JSON_SCHEMA_VIOLATION: required field %q is missing or zero", v.Type().Field(i).Name)
		}
	}

	return nil
}

// RepairJSON attempts to fix common malformations in LLM-produced JSON:
// unquoted keys, single quotes, unclosed brackets, trailing commas,
// comments, and wrapping markdown code fences.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Hjson (comments, unquoted keys/strings, optional
// commas) and returns standard JSON, for providers that wrap their
// output in a looser human-readable format than strict JSON.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(jsonBytes), nil
}

// SmartParse tries, in order, a strict JSON parse, a repaired-JSON
// parse, and an Hjson parse, returning the first form of input that
// unmarshals cleanly into schema. Provider output varies in how
// strictly it follows "return only JSON", so extraction and analysis
// both fall back through these in sequence rather than failing on the
// first malformed response.
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	if hjsonResult, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(hjsonResult), schema); err == nil {
			return hjsonResult, nil
		}
	}

	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}
