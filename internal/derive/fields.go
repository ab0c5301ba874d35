package derive

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// Object is one decoded JSON object. Lookups never fail: every accessor takes
// the default to use when the field is missing or has an unusable type.
type Object map[string]any

// parseArray decodes raw as a JSON array. Anything else (malformed JSON, a
// different top-level type, trailing data) yields an empty array.
func parseArray(raw string) []any {
	v, ok := Decode(raw)
	if !ok {
		return nil
	}
	xs, ok := v.([]any)
	if !ok {
		return nil
	}
	return xs
}

// parseObject decodes raw as a JSON object, falling back to an empty object.
func parseObject(raw string) Object {
	v, ok := Decode(raw)
	if !ok {
		return Object{}
	}
	return asObject(v)
}

// Decode parses one JSON value with numbers kept as json.Number. Malformed
// input and trailing data after the value report false.
func Decode(raw string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return v, true
}

// asObject treats non-object array elements as objects with no fields, so
// they decode to all-default records instead of being dropped.
func asObject(v any) Object {
	m, ok := v.(map[string]any)
	if !ok {
		return Object{}
	}
	return Object(m)
}

func (o Object) String(key, def string) string {
	switch v := o[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return def
	}
}

func (o Object) Bool(key string, def bool) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return def
}

// Int accepts integral and fractional numbers (truncated toward zero) and
// numeric strings.
func (o Object) Int(key string, def int) int {
	n, ok := o.int64(key)
	if !ok || n < math.MinInt || n > math.MaxInt {
		return def
	}
	return int(n)
}

// Color reads a 32-bit color. Signed values (as written by Java ints) keep
// their bit pattern; anything wider than 32 bits keeps its low 32 bits.
func (o Object) Color(key string, def uint32) uint32 {
	n, ok := o.int64(key)
	if !ok {
		return def
	}
	return uint32(n)
}

func (o Object) int64(key string) (int64, bool) {
	var s string
	switch v := o[key].(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
