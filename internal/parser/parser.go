package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/eventdiff/internal/errors" // Custom errors package
	"github.com/mcncl/eventdiff/internal/models"
)

// Parse decodes exactly one JSON value from reader into model types.
func Parse(reader io.Reader) (models.JSONValue, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	var rootValue models.JSONValue
	if err := decoder.Decode(&rootValue); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	// Anything but whitespace after the first value is rejected.
	var trailingValue interface{}
	if err := decoder.Decode(&trailingValue); err == nil {
		return nil, errors.NewParsingError("multiple JSON values found on one line", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	return normalizeJSONValue(rootValue), nil
}

// ParseRecord parses one input line, which must hold a single JSON object.
func ParseRecord(line string) (models.JSONObject, error) {
	if strings.TrimSpace(line) == "" {
		return nil, errors.NewParsingError("record is empty", errors.ErrEmptyInput)
	}

	value, err := Parse(strings.NewReader(line))
	if err != nil {
		return nil, err
	}

	obj, ok := value.(models.JSONObject)
	if !ok {
		return nil, errors.NewParsingError(
			fmt.Sprintf("expected a JSON object, got %s", describe(value)),
			errors.ErrNotObject,
		)
	}
	return obj, nil
}

// normalizeJSONValue converts raw JSON types into our model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v // Primitives (string, json.Number, bool, nil) are returned as is
	}
}

func describe(v models.JSONValue) string {
	switch v.(type) {
	case models.JSONArray:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
