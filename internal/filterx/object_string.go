package filterx

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/cwbudde/go-filterx/internal/jsonvalue"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// string, bytes and protobuf are independent type-wise but share the
// payload: an owned byte run. Strings are kept as Go strings; the length
// is authoritative and embedded NULs are legal.

// TypeString is the owned UTF-8 string type.
var TypeString = &Type{
	name:  "string",
	super: TypeObject,
	truthy: func(o *Object) bool {
		return len(o.impl.(string)) > 0
	},
	length: func(o *Object) (uint64, bool) {
		return uint64(len(o.impl.(string))), true
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		return o.impl.(string), logmsg.VTString, true
	},
	repr: func(o *Object) (string, bool) {
		return o.impl.(string), true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return jsonvalue.NewString(o.impl.(string)), nil, true
	},
}

// TypeBytes owns a raw byte run; its repr is lowercase hex and it enters
// JSON as padded base64.
var TypeBytes = &Type{
	name:  "bytes",
	super: TypeObject,
	truthy: func(o *Object) bool {
		return len(o.impl.(string)) > 0
	},
	length: func(o *Object) (uint64, bool) {
		return uint64(len(o.impl.(string))), true
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		return o.impl.(string), logmsg.VTBytes, true
	},
	repr: func(o *Object) (string, bool) {
		return hex.EncodeToString([]byte(o.impl.(string))), true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return jsonvalue.NewString(base64.StdEncoding.EncodeToString([]byte(o.impl.(string)))), nil, true
	},
}

// TypeProtobuf is a bytes variant carrying an encoded protobuf blob.
var TypeProtobuf = &Type{
	name:  "protobuf",
	super: TypeObject,
	truthy: func(o *Object) bool {
		return len(o.impl.(string)) > 0
	},
	length: func(o *Object) (uint64, bool) {
		return uint64(len(o.impl.(string))), true
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		return o.impl.(string), logmsg.VTProtobuf, true
	},
	repr: func(o *Object) (string, bool) {
		return hex.EncodeToString([]byte(o.impl.(string))), true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return jsonvalue.NewString(base64.StdEncoding.EncodeToString([]byte(o.impl.(string)))), nil, true
	},
}

// NewString wraps a string value.
func NewString(value string) *Object {
	return NewObject(TypeString, value)
}

// NewBytes wraps a raw byte run.
func NewBytes(value []byte) *Object {
	return NewObject(TypeBytes, string(value))
}

// NewProtobuf wraps an encoded protobuf blob.
func NewProtobuf(value []byte) *Object {
	return NewObject(TypeProtobuf, string(value))
}

// StringValue unwraps a string object.
func StringValue(o *Object) (string, bool) {
	if !o.IsType(TypeString) {
		return "", false
	}
	return o.impl.(string), true
}

// BytesValue unwraps a bytes object.
func BytesValue(o *Object) ([]byte, bool) {
	if !o.IsType(TypeBytes) {
		return nil, false
	}
	return []byte(o.impl.(string)), true
}

// ProtobufValue unwraps a protobuf object.
func ProtobufValue(o *Object) ([]byte, bool) {
	if !o.IsType(TypeProtobuf) {
		return nil, false
	}
	return []byte(o.impl.(string)), true
}
