package filterx

import (
	"github.com/cwbudde/go-filterx/internal/jsonvalue"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// TypeNull is the type of the interned null singleton.
var TypeNull = &Type{
	name:  "null",
	super: TypeObject,
	truthy: func(o *Object) bool {
		return false
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		return "", logmsg.VTNull, true
	},
	repr: func(o *Object) (string, bool) {
		return "null", true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return jsonvalue.NewNull(), nil, true
	},
}

var nullObject *Object

// NewNull returns the interned null singleton.
func NewNull() *Object {
	return nullObject.Ref()
}

func initNull() {
	CacheObject(&nullObject, NewObject(TypeNull, nil))
}
