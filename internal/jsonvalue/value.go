// Package jsonvalue provides the in-memory JSON DOM that backs the filterx
// json-object and json-array types. It intentionally avoids interface{} in
// its payload accessors to keep downstream use in the evaluator type-safe,
// and it preserves object key insertion order, which the filterx container
// contract requires.
package jsonvalue

import (
	"math"
	"strconv"
)

// Kind represents the type of a JSON value.
type Kind uint8

const (
	KindNull Kind = iota
	KindObject
	KindArray
	KindString
	KindNumber
	KindInt64
	KindBoolean
)

// String returns a human-readable form of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindObject:
		return "Object"
	case KindArray:
		return "Array"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindInt64:
		return "Int64"
	case KindBoolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// Value represents a JSON value in memory.
//
// Userdata carries a cache slot for the evaluator: the filterx object that
// was created for this DOM node, so repeated reads of the same node return
// the same object. The DOM itself never touches the slot beyond copying
// hooks during DeepCopy.
type Value struct {
	kind Kind

	// Object fields
	objEntries map[string]*Value
	objKeys    []string // preserves insertion order

	// Array elements
	arrElems []*Value

	// Primitive payloads
	str  string
	num  float64
	i64  int64
	bool bool

	userdata any
}

// Kind returns the kind of the value.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// NewNull returns a JSON null value.
func NewNull() *Value {
	return &Value{kind: KindNull}
}

// NewBoolean returns a JSON boolean value.
func NewBoolean(b bool) *Value {
	return &Value{kind: KindBoolean, bool: b}
}

// NewNumber returns a JSON number value.
func NewNumber(n float64) *Value {
	return &Value{kind: KindNumber, num: n}
}

// NewInt64 returns a JSON int64 value.
func NewInt64(n int64) *Value {
	return &Value{kind: KindInt64, i64: n}
}

// NewString returns a JSON string value.
func NewString(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// NewArray returns an empty JSON array value.
func NewArray() *Value {
	return &Value{kind: KindArray, arrElems: make([]*Value, 0)}
}

// NewObject returns an empty JSON object value.
func NewObject() *Value {
	return &Value{
		kind:       KindObject,
		objEntries: make(map[string]*Value),
		objKeys:    make([]string, 0),
	}
}

// Userdata returns the cache slot contents, nil if unset.
func (v *Value) Userdata() any {
	if v == nil {
		return nil
	}
	return v.userdata
}

// SetUserdata stores an opaque value in the cache slot.
func (v *Value) SetUserdata(ud any) {
	if v != nil {
		v.userdata = ud
	}
}

// ObjectGet returns the value associated with the provided key. Nil is
// returned if the receiver is not an object or the key does not exist.
func (v *Value) ObjectGet(key string) *Value {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.objEntries[key]
}

// ObjectHas reports whether the key exists in the object.
func (v *Value) ObjectHas(key string) bool {
	if v == nil || v.kind != KindObject {
		return false
	}
	_, exists := v.objEntries[key]
	return exists
}

// ObjectSet associates key with child within the object, appending new keys
// to the insertion-order list. An existing key keeps its position and has
// its value replaced.
func (v *Value) ObjectSet(key string, child *Value) {
	if v == nil || v.kind != KindObject {
		return
	}
	if _, exists := v.objEntries[key]; !exists {
		v.objKeys = append(v.objKeys, key)
	}
	v.objEntries[key] = child
}

// ObjectDelete removes the entry if present. It returns true when a key was
// removed.
func (v *Value) ObjectDelete(key string) bool {
	if v == nil || v.kind != KindObject {
		return false
	}
	if _, exists := v.objEntries[key]; !exists {
		return false
	}
	delete(v.objEntries, key)
	for i, k := range v.objKeys {
		if k == key {
			v.objKeys = append(v.objKeys[:i], v.objKeys[i+1:]...)
			break
		}
	}
	return true
}

// ObjectKeys returns the keys of the object in insertion order.
func (v *Value) ObjectKeys() []string {
	if v == nil || v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.objKeys))
	copy(keys, v.objKeys)
	return keys
}

// ObjectLen returns the number of entries or zero otherwise.
func (v *Value) ObjectLen() int {
	if v == nil || v.kind != KindObject {
		return 0
	}
	return len(v.objKeys)
}

// ArrayLen returns the number of elements in the array or zero otherwise.
func (v *Value) ArrayLen() int {
	if v == nil || v.kind != KindArray {
		return 0
	}
	return len(v.arrElems)
}

// ArrayGet returns the element at index or nil if out of bounds.
func (v *Value) ArrayGet(index int) *Value {
	if v == nil || v.kind != KindArray {
		return nil
	}
	if index < 0 || index >= len(v.arrElems) {
		return nil
	}
	return v.arrElems[index]
}

// ArraySet writes the element at index if the receiver is an array and the
// index is valid. It returns true when the assignment succeeded.
func (v *Value) ArraySet(index int, child *Value) bool {
	if v == nil || v.kind != KindArray {
		return false
	}
	if index < 0 || index >= len(v.arrElems) {
		return false
	}
	v.arrElems[index] = child
	return true
}

// ArrayAppend appends an element to the end of the array.
func (v *Value) ArrayAppend(child *Value) {
	if v == nil || v.kind != KindArray {
		return
	}
	v.arrElems = append(v.arrElems, child)
}

// ArrayDelete removes the element at index when valid. It returns true on
// success.
func (v *Value) ArrayDelete(index int) bool {
	if v == nil || v.kind != KindArray {
		return false
	}
	if index < 0 || index >= len(v.arrElems) {
		return false
	}
	copy(v.arrElems[index:], v.arrElems[index+1:])
	v.arrElems = v.arrElems[:len(v.arrElems)-1]
	return true
}

// BoolValue returns the boolean payload, false for any other kind.
func (v *Value) BoolValue() bool {
	if v == nil || v.kind != KindBoolean {
		return false
	}
	return v.bool
}

// StringValue returns the string payload, "" for any other kind.
func (v *Value) StringValue() string {
	if v == nil || v.kind != KindString {
		return ""
	}
	return v.str
}

// NumberValue returns the float payload. An Int64 value converts.
func (v *Value) NumberValue() float64 {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindNumber:
		return v.num
	case KindInt64:
		return float64(v.i64)
	default:
		return 0
	}
}

// Int64Value returns the int64 payload, 0 for any other kind.
func (v *Value) Int64Value() int64 {
	if v == nil || v.kind != KindInt64 {
		return 0
	}
	return v.i64
}

// DeepCopy produces a structurally independent copy of the value. The
// onCopy callback, when non-nil, is invoked for every copied node with the
// source and destination so callers can migrate per-node caches.
func (v *Value) DeepCopy(onCopy func(src, dst *Value)) *Value {
	if v == nil {
		return nil
	}
	dst := &Value{kind: v.kind, str: v.str, num: v.num, i64: v.i64, bool: v.bool}
	switch v.kind {
	case KindObject:
		dst.objEntries = make(map[string]*Value, len(v.objEntries))
		dst.objKeys = make([]string, len(v.objKeys))
		copy(dst.objKeys, v.objKeys)
		for k, child := range v.objEntries {
			dst.objEntries[k] = child.DeepCopy(onCopy)
		}
	case KindArray:
		dst.arrElems = make([]*Value, len(v.arrElems))
		for i, child := range v.arrElems {
			dst.arrElems[i] = child.DeepCopy(onCopy)
		}
	}
	if onCopy != nil {
		onCopy(v, dst)
	}
	return dst
}

// AppendJSON serializes the value to compact JSON, preserving object key
// insertion order, and appends it to dst.
func (v *Value) AppendJSON(dst []byte) []byte {
	if v == nil {
		return append(dst, "null"...)
	}
	switch v.kind {
	case KindNull:
		return append(dst, "null"...)
	case KindBoolean:
		if v.bool {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case KindInt64:
		return strconv.AppendInt(dst, v.i64, 10)
	case KindNumber:
		return AppendNumber(dst, v.num)
	case KindString:
		return AppendQuoted(dst, v.str)
	case KindArray:
		dst = append(dst, '[')
		for i, el := range v.arrElems {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = el.AppendJSON(dst)
		}
		return append(dst, ']')
	case KindObject:
		dst = append(dst, '{')
		for i, k := range v.objKeys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendQuoted(dst, k)
			dst = append(dst, ':')
			dst = v.objEntries[k].AppendJSON(dst)
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

// JSONString returns the compact JSON text of the value.
func (v *Value) JSONString() string {
	return string(v.AppendJSON(nil))
}

// AppendNumber appends the shortest round-trip JSON representation of a
// float. Non-finite values degrade to null, which JSON cannot express.
func AppendNumber(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.AppendFloat(dst, f, format, -1, 64)
}

// AppendQuoted appends s as a quoted JSON string with minimal escaping.
func AppendQuoted(dst []byte, s string) []byte {
	const hex = "0123456789abcdef"
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}
