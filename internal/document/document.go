// Package document holds the dynamically-typed view of a query profile.
//
// Profiles are large, loosely-typed JSON documents: any field may be missing,
// null, or carry the wrong type depending on engine version. Everything above
// this package reads fields through the coerce-or-default accessors here so it
// can assume always-present, correctly-typed values.
package document

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Document is a decoded profile. The zero value is usable and empty.
type Document map[string]any

// Parse decodes a raw profile. Invalid JSON is a hard failure: no extraction
// is possible without a parsed document, so this is the one place the engine
// surfaces an error instead of degrading.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid profile JSON: %w", err)
	}
	return doc, nil
}

// Get walks nested objects along path and returns the raw value, or nil if
// any step is missing or not an object.
func (d Document) Get(path ...string) any {
	var cur any = map[string]any(d)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

func (d Document) Str(path ...string) string       { return Str(d.Get(path...), "") }
func (d Document) Float(path ...string) float64    { return Float(d.Get(path...), 0) }
func (d Document) Int(path ...string) int64        { return Int(d.Get(path...), 0) }
func (d Document) Bool(path ...string) bool        { return Bool(d.Get(path...), false) }
func (d Document) List(path ...string) []any       { return List(d.Get(path...)) }
func (d Document) Map(path ...string) Document     { return Map(d.Get(path...)) }
func (d Document) StrList(path ...string) []string { return StrList(d.Get(path...)) }

// Str returns v if it is a string, else fallback.
func Str(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// Float returns v coerced to float64, else fallback. NaN and infinities count
// as unusable. Numeric strings are accepted because some engine versions
// serialize counters as strings.
func Float(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return n
	case float32:
		return Float(float64(n), fallback)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return fallback
		}
		return Float(f, fallback)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return fallback
		}
		return Float(f, fallback)
	}
	return fallback
}

// Int returns v coerced to int64 (truncating), else fallback.
func Int(v any, fallback int64) int64 {
	f := Float(v, math.NaN())
	if math.IsNaN(f) {
		return fallback
	}
	return int64(f)
}

// Bool returns v if it is a bool, else fallback.
func Bool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

// List returns v as a slice, or nil.
func List(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

// Map returns v as an object, or an empty object.
func Map(v any) Document {
	if m, ok := v.(map[string]any); ok {
		return Document(m)
	}
	return Document{}
}

// StrList returns the string elements of v; non-string elements are dropped.
func StrList(v any) []string {
	var out []string
	for _, item := range List(v) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
