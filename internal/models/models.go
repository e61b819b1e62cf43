package models

import "time"

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Side identifies one of the two compared sources.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Record is one parsed input line together with its timestamp.
type Record struct {
	Raw       string
	Value     JSONObject
	Timestamp time.Time
}
