// Package value implements the ordered JSON value tree shared by the
// pattern matcher, field-path engine, and structural validator.
//
// Value is a tagged union over the JSON value space: null, boolean,
// number, string, array, and object. Objects preserve insertion order
// (for reporter-friendly diagnostics) while still supporting O(1) key
// lookup via an auxiliary index, per the re-architecture note that a
// heterogeneous JSON tree is best modeled as a sum type with
// insertion-ordered key-value slices plus an index.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON tree node.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  *OrderedMap
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string (may be a pattern token on the expected side).
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a slice of Values.
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

// Object wraps an OrderedMap.
func Object(m *OrderedMap) Value { return Value{kind: KindObject, obj: m} }

// Undefined is the zero Value; callers distinguish "undefined" from
// "null" via the boolean companion returned by lookups, never by
// inspecting this value's Kind alone.
var Undefined = Value{}

func (v Value) Kind() Kind          { return v.kind }
func (v Value) IsNull() bool        { return v.kind == KindNull }
func (v Value) Bool() bool          { return v.b }
func (v Value) Number() float64     { return v.n }
func (v Value) String() string      { return v.s }
func (v Value) Array() []Value      { return v.arr }
func (v Value) Object() *OrderedMap { return v.obj }

// Len reports the structural length: array length, or object key count.
// Panics are avoided; non-composite kinds return -1.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		if v.obj == nil {
			return 0
		}
		return v.obj.Len()
	default:
		return -1
	}
}

// Equal performs deep structural equality. Object key order does not
// affect equality (meta-key neutrality).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.Keys() {
			av, _ := a.obj.Get(k)
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// OrderedMap is an insertion-ordered string-keyed map of Values.
type OrderedMap struct {
	keys  []string
	index map[string]int
	vals  []Value
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{index: make(map[string]int)}
}

// Set inserts or overwrites a key, preserving the position of the first
// insertion when the key already exists.
func (m *OrderedMap) Set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Get looks up a key; ok is false when the key is absent (not when the
// stored value is null).
func (m *OrderedMap) Get(key string) (Value, bool) {
	if m == nil {
		return Undefined, false
	}
	i, ok := m.index[key]
	if !ok {
		return Undefined, false
	}
	return m.vals[i], true
}

// Has reports key presence.
func (m *OrderedMap) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[key]
	return ok
}

// Keys returns keys in insertion order.
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of keys.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// FromJSON parses raw JSON bytes into a Value tree for the actual side
// of a comparison, preserving source key order. Strings are never
// treated as pattern tokens here.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Undefined, fmt.Errorf("parsing actual JSON: %w", err)
	}
	return v, nil
}

// FromExpectedJSON parses raw JSON bytes into a Value tree for the
// expected side. The shape is identical to FromJSON; the distinction
// between "expected" and "actual" trees is enforced by which package
// calls which constructor (see internal/value doc comment), not by a
// different Go type, since the meta-key/pattern-token interpretation
// happens later, in internal/validator.
func FromExpectedJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Undefined, fmt.Errorf("parsing expected JSON: %w", err)
	}
	return v, nil
}

// decodeValue reads one JSON value (object, array, or scalar) from dec
// using Token()-level decoding so that object key order from the
// source document is preserved in the resulting OrderedMap.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Undefined, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			om := NewOrderedMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Undefined, err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return Undefined, err
				}
				om.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Undefined, err
			}
			return Object(om), nil
		case '[':
			var items []Value
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Undefined, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Undefined, err
			}
			return Array(items), nil
		default:
			return Undefined, fmt.Errorf("unexpected delimiter %v", t)
		}
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Undefined, fmt.Errorf("decoding number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	default:
		return Undefined, fmt.Errorf("unexpected token %v (%T)", tok, tok)
	}
}

// ToInterface converts a Value back into plain Go data for
// interoperation with encoding/json or gojq.
func ToInterface(v Value) interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, item := range v.arr {
			out[i] = ToInterface(item)
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, v.obj.Len())
		for _, k := range v.obj.Keys() {
			val, _ := v.obj.Get(k)
			out[k] = ToInterface(val)
		}
		return out
	default:
		return nil
	}
}

// Describe returns a short human summary of a Value's shape, used by
// the diagnostic analyzer for structural hints (array length + first-N
// element types; mapping key count + first-N keys; string length +
// truncated preview).
func Describe(v Value, maxItems int) string {
	switch v.kind {
	case KindArray:
		n := len(v.arr)
		shown := n
		if shown > maxItems {
			shown = maxItems
		}
		kinds := make([]string, shown)
		for i := 0; i < shown; i++ {
			kinds[i] = v.arr[i].Kind().String()
		}
		return fmt.Sprintf("array(len=%d, first=%v)", n, kinds)
	case KindObject:
		keys := v.obj.Keys()
		shown := len(keys)
		if shown > maxItems {
			shown = maxItems
		}
		return fmt.Sprintf("object(keys=%d, first=%v)", v.obj.Len(), keys[:shown])
	case KindString:
		s := v.s
		preview := s
		if len(preview) > 40 {
			preview = preview[:40] + "..."
		}
		return fmt.Sprintf("string(len=%d, %q)", len(s), preview)
	default:
		return v.kind.String()
	}
}
