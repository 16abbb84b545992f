// Package logmsg provides the minimal log record model the filterx core
// evaluates against: a set of named values, each carrying a raw textual
// representation and a semantic type tag. The surrounding routing daemon
// owns the real record; this package models exactly the surface the
// evaluator needs (typed get, typed set, dirty tracking).
package logmsg

// ValueType is the semantic type tag attached to a record value.
type ValueType uint8

const (
	VTString ValueType = iota
	VTJSON
	VTBoolean
	VTInteger
	VTDouble
	VTDatetime
	VTList
	VTNull
	VTBytes
	VTProtobuf
)

// String returns the tag name as used in error messages.
func (t ValueType) String() string {
	switch t {
	case VTString:
		return "string"
	case VTJSON:
		return "json"
	case VTBoolean:
		return "boolean"
	case VTInteger:
		return "integer"
	case VTDouble:
		return "double"
	case VTDatetime:
		return "datetime"
	case VTList:
		return "list"
	case VTNull:
		return "null"
	case VTBytes:
		return "bytes"
	case VTProtobuf:
		return "protobuf"
	default:
		return "unknown"
	}
}

type typedValue struct {
	raw string
	typ ValueType
}

// Message is a single log record: an insertion-ordered set of name/value
// pairs. Values are stored in their marshaled textual form together with
// their semantic type; the evaluator materialises typed objects lazily.
type Message struct {
	values map[string]typedValue
	names  []string
	dirty  bool
}

// New returns an empty message.
func New() *Message {
	return &Message{values: make(map[string]typedValue)}
}

// GetValue returns the raw value and its type tag. The second return is
// false when the name is unset.
func (m *Message) GetValue(name string) (string, ValueType, bool) {
	tv, ok := m.values[name]
	if !ok {
		return "", VTNull, false
	}
	return tv.raw, tv.typ, true
}

// SetValue stores a raw value with its type tag and marks the message
// dirty. Existing names keep their position.
func (m *Message) SetValue(name, raw string, typ ValueType) {
	if _, exists := m.values[name]; !exists {
		m.names = append(m.names, name)
	}
	m.values[name] = typedValue{raw: raw, typ: typ}
	m.dirty = true
}

// Unset removes a value. It reports whether the name was present.
func (m *Message) Unset(name string) bool {
	if _, exists := m.values[name]; !exists {
		return false
	}
	delete(m.values, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
	m.dirty = true
	return true
}

// Names returns the value names in insertion order.
func (m *Message) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Dirty reports whether any value was set or unset since the last ClearDirty.
func (m *Message) Dirty() bool {
	return m.dirty
}

// ClearDirty resets the dirty flag; hosts call it before an evaluation.
func (m *Message) ClearDirty() {
	m.dirty = false
}
