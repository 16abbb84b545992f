package filterx

import (
	"math"
	"strconv"

	"github.com/cwbudde/go-filterx/internal/jsonvalue"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// The primitive numeric and boolean types share a generic number payload,
// so the comparison engine and the emptiness checks can treat them
// uniformly.

type genericNumber struct {
	isFloat bool
	i       int64
	f       float64
}

func (gn genericNumber) asFloat() float64 {
	if gn.isFloat {
		return gn.f
	}
	return float64(gn.i)
}

func (gn genericNumber) isZero() bool {
	if gn.isFloat {
		return gn.f == 0
	}
	return gn.i == 0
}

// TypeBoolean wraps a single bit. The two values are interned.
var TypeBoolean = &Type{
	name:  "boolean",
	super: TypeObject,
	truthy: func(o *Object) bool {
		return o.impl.(bool)
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		if o.impl.(bool) {
			return "true", logmsg.VTBoolean, true
		}
		return "false", logmsg.VTBoolean, true
	},
	repr: func(o *Object) (string, bool) {
		if o.impl.(bool) {
			return "true", true
		}
		return "false", true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return jsonvalue.NewBoolean(o.impl.(bool)), nil, true
	},
}

var trueObject, falseObject *Object

// NewBoolean returns one of the interned boolean singletons.
func NewBoolean(value bool) *Object {
	if value {
		return trueObject.Ref()
	}
	return falseObject.Ref()
}

// BooleanValue unwraps a boolean object.
func BooleanValue(o *Object) (bool, bool) {
	if !o.IsType(TypeBoolean) {
		return false, false
	}
	return o.impl.(bool), true
}

func initBooleans() {
	CacheObject(&trueObject, NewObject(TypeBoolean, true))
	CacheObject(&falseObject, NewObject(TypeBoolean, false))
}

// TypeInteger is the 64-bit signed integer type.
var TypeInteger = &Type{
	name:  "integer",
	super: TypeObject,
	truthy: func(o *Object) bool {
		return o.impl.(int64) != 0
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		return strconv.FormatInt(o.impl.(int64), 10), logmsg.VTInteger, true
	},
	repr: func(o *Object) (string, bool) {
		return strconv.FormatInt(o.impl.(int64), 10), true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return jsonvalue.NewInt64(o.impl.(int64)), nil, true
	},
}

// NewInteger wraps an int64.
func NewInteger(value int64) *Object {
	return NewObject(TypeInteger, value)
}

// IntegerValue unwraps an integer object.
func IntegerValue(o *Object) (int64, bool) {
	if !o.IsType(TypeInteger) {
		return 0, false
	}
	return o.impl.(int64), true
}

// TypeDouble is the IEEE 754 double type.
var TypeDouble = &Type{
	name:  "double",
	super: TypeObject,
	truthy: func(o *Object) bool {
		return o.impl.(float64) != 0
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		return formatDouble(o.impl.(float64)), logmsg.VTDouble, true
	},
	repr: func(o *Object) (string, bool) {
		return formatDouble(o.impl.(float64)), true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return jsonvalue.NewNumber(o.impl.(float64)), nil, true
	},
}

// NewDouble wraps a float64.
func NewDouble(value float64) *Object {
	return NewObject(TypeDouble, value)
}

// DoubleValue unwraps a double object.
func DoubleValue(o *Object) (float64, bool) {
	if !o.IsType(TypeDouble) {
		return 0, false
	}
	return o.impl.(float64), true
}

// formatDouble renders the JSON-compatible shortest round-trip form.
func formatDouble(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "+Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	return string(jsonvalue.AppendNumber(nil, f))
}

// primitiveNumber extracts the generic number behind an integer, double,
// boolean or null object.
func primitiveNumber(o *Object) (genericNumber, bool) {
	switch {
	case o.IsType(TypeInteger):
		return genericNumber{i: o.impl.(int64)}, true
	case o.IsType(TypeDouble):
		return genericNumber{isFloat: true, f: o.impl.(float64)}, true
	case o.IsType(TypeBoolean):
		if o.impl.(bool) {
			return genericNumber{i: 1}, true
		}
		return genericNumber{i: 0}, true
	case o.IsType(TypeNull):
		return genericNumber{i: 0}, true
	}
	return genericNumber{}, false
}
