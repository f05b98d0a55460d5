package document

import (
	"math"
	"strings"
	"testing"
)

func TestParseValidDocument(t *testing.T) {
	doc, err := Parse([]byte(`{"query": "SELECT 1", "id": {"part1": "q1"}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := doc.Str("query"); got != "SELECT 1" {
		t.Errorf("Str(query) = %q, want %q", got, "SELECT 1")
	}
	if got := doc.Str("id", "part1"); got != "q1" {
		t.Errorf("Str(id, part1) = %q, want %q", got, "q1")
	}
}

func TestParseInvalidJSONFailsFast(t *testing.T) {
	_, err := Parse([]byte("{ invalid"))
	if err == nil {
		t.Fatal("Parse() = nil error, want parse failure")
	}
	if !strings.Contains(err.Error(), "invalid profile JSON") {
		t.Errorf("error = %v, want parse-error classification", err)
	}
}

func TestGetMissingPath(t *testing.T) {
	doc := Document{"a": map[string]any{"b": 1.0}}

	if got := doc.Get("a", "b", "c"); got != nil {
		t.Errorf("Get through non-object = %v, want nil", got)
	}
	if got := doc.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestStrFallback(t *testing.T) {
	if got := Str(42.0, "fallback"); got != "fallback" {
		t.Errorf("Str(number) = %q, want fallback", got)
	}
	if got := Str(nil, "fallback"); got != "fallback" {
		t.Errorf("Str(nil) = %q, want fallback", got)
	}
	if got := Str("x", "fallback"); got != "x" {
		t.Errorf("Str(string) = %q, want x", got)
	}
}

func TestFloatCoercion(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		fallback float64
		want     float64
	}{
		{"float", 1.5, 0, 1.5},
		{"int", 7, 0, 7},
		{"numeric string", "123", 0, 123},
		{"garbage string", "abc", 9, 9},
		{"nan", math.NaN(), 9, 9},
		{"inf", math.Inf(1), 9, 9},
		{"nil", nil, 9, 9},
		{"bool", true, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Float(tt.value, tt.fallback); got != tt.want {
				t.Errorf("Float(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestIntTruncates(t *testing.T) {
	if got := Int(3.9, 0); got != 3 {
		t.Errorf("Int(3.9) = %d, want 3", got)
	}
	if got := Int("oops", 5); got != 5 {
		t.Errorf("Int(garbage) = %d, want fallback 5", got)
	}
}

func TestStrListDropsNonStrings(t *testing.T) {
	got := StrList([]any{"a", 1.0, "b", nil})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("StrList = %v, want [a b]", got)
	}
	if got := StrList("not a list"); got != nil {
		t.Errorf("StrList(non-list) = %v, want nil", got)
	}
}

func TestMapFallback(t *testing.T) {
	m := Map("not a map")
	if got := m.Str("anything"); got != "" {
		t.Errorf("Map(non-map).Str = %q, want empty", got)
	}
}
