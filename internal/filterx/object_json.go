package filterx

import (
	"github.com/cwbudde/go-filterx/internal/jsonvalue"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// json-object and json-array are the shipped implementations of the dict
// and list contracts, backed by a parsed JSON DOM node. DOM nodes are
// converted to objects lazily and the resulting object is cached on the
// node, so repeated reads of the same key return the same object. The
// cache points from DOM to object while nested containers point back up
// through a root weak reference; the weak reference is what breaks the
// cycle, with the scope owning the strong side.

type jsonContainer struct {
	dom   *jsonvalue.Value
	root  WeakRef
	owner *Object
}

// convertDOMNode turns one DOM node into an object, consulting and filling
// the node cache. self is the container the node was read out of.
func (jc *jsonContainer) convertDOMNode(self *Object, node *jsonvalue.Value) *Object {
	if node == nil || node.Kind() == jsonvalue.KindNull {
		return NewNull()
	}

	if cached, ok := node.Userdata().(*Object); ok && cached != nil {
		return cached.Ref()
	}

	var obj *Object
	switch node.Kind() {
	case jsonvalue.KindBoolean:
		obj = NewBoolean(node.BoolValue())
	case jsonvalue.KindInt64:
		obj = NewInteger(node.Int64Value())
	case jsonvalue.KindNumber:
		obj = NewDouble(node.NumberValue())
	case jsonvalue.KindString:
		obj = NewString(node.StringValue())
	case jsonvalue.KindObject, jsonvalue.KindArray:
		root := jc.root.Get()
		if root == nil {
			root = self.Ref()
		}
		obj = newJSONSub(node, root)
	default:
		return NewNull()
	}

	node.SetUserdata(obj.Ref())
	return obj
}

// storeValue clones a mutable value, maps it into a DOM node and caches the
// associated object on it, so subsequent reads return that object.
func storeValue(value *Object) (*jsonvalue.Value, bool) {
	stored := value.Clone()
	defer stored.Unref()

	node, assoc, ok := stored.MapToJSON()
	if !ok {
		log.WithField("type", value.typ.name).Error("value cannot be represented in a container")
		return nil, false
	}
	node.SetUserdata(assoc)
	return node, true
}

func jsonDeepCopy(dom *jsonvalue.Value) *jsonvalue.Value {
	return dom.DeepCopy(func(src, dst *jsonvalue.Value) {
		switch src.Kind() {
		case jsonvalue.KindObject, jsonvalue.KindArray:
			// containers reconvert lazily against the copy
		default:
			if cached, ok := src.Userdata().(*Object); ok && cached != nil {
				dst.SetUserdata(cached.Ref())
			}
		}
	})
}

// marshalJSONContainer renders the record-side form: an array of strings
// becomes a record list, everything else serialises as JSON text.
func marshalJSONContainer(jc *jsonContainer) (string, logmsg.ValueType, bool) {
	if raw, ok := marshalStringList(jc.dom); ok {
		return raw, logmsg.VTList, true
	}
	return jc.dom.JSONString(), logmsg.VTJSON, true
}

func marshalStringList(dom *jsonvalue.Value) (string, bool) {
	if dom.Kind() != jsonvalue.KindArray {
		return "", false
	}
	elements := make([]string, 0, dom.ArrayLen())
	for i := 0; i < dom.ArrayLen(); i++ {
		el := dom.ArrayGet(i)
		if el.Kind() != jsonvalue.KindString {
			return "", false
		}
		elements = append(elements, el.StringValue())
	}
	return logmsg.EncodeList(elements), true
}

// ----------------------------------------------------------------------
// json-object
// ----------------------------------------------------------------------

// jsonObject carries the owner backlink so the dictImpl methods can reach
// their Object cell for conversion roots and dirty marking.
type jsonObject struct {
	jsonContainer
}

func (jo *jsonObject) dictLen() uint64 {
	return uint64(jo.dom.ObjectLen())
}

func (jo *jsonObject) dictGet(key *Object) *Object {
	keyStr, ok := dictKeyString(key)
	if !ok {
		return nil
	}
	node := jo.dom.ObjectGet(keyStr)
	if node == nil {
		return nil
	}
	return jo.convertDOMNode(jo.owner, node)
}

func (jo *jsonObject) dictSet(key *Object, value *Object) bool {
	keyStr, ok := dictKeyString(key)
	if !ok {
		return false
	}
	node, ok := storeValue(value)
	if !ok {
		return false
	}
	jo.dom.ObjectSet(keyStr, node)
	jo.owner.markModified(&jo.root)
	return true
}

func (jo *jsonObject) dictIsSet(key *Object) bool {
	keyStr, ok := dictKeyString(key)
	if !ok {
		return false
	}
	return jo.dom.ObjectHas(keyStr)
}

func (jo *jsonObject) dictUnset(key *Object) bool {
	keyStr, ok := dictKeyString(key)
	if !ok {
		return false
	}
	jo.dom.ObjectDelete(keyStr)
	jo.owner.markModified(&jo.root)
	return true
}

func (jo *jsonObject) dictIter(fn func(key, value *Object) bool) bool {
	for _, keyStr := range jo.dom.ObjectKeys() {
		key := NewString(keyStr)
		value := jo.convertDOMNode(jo.owner, jo.dom.ObjectGet(keyStr))
		ok := fn(key, value)
		key.Unref()
		value.Unref()
		if !ok {
			return false
		}
	}
	return true
}

func dictKeyString(key *Object) (string, bool) {
	if s, ok := StringValue(key); ok {
		return s, true
	}
	if raw, ok := MessageValueRaw(key); ok {
		if tag, _ := MessageValueType(key); tag == logmsg.VTString {
			return raw, true
		}
	}
	log.WithField("key_type", key.typ.name).Error("dict keys must be strings")
	return "", false
}

// TypeJSONObject is the JSON-DOM-backed dict implementation.
var TypeJSONObject = &Type{
	name:    "json_object",
	super:   TypeDict,
	mutable: true,
	truthy: func(o *Object) bool {
		return true
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		return marshalJSONContainer(&o.impl.(*jsonObject).jsonContainer)
	},
	repr: func(o *Object) (string, bool) {
		return o.impl.(*jsonObject).dom.JSONString(), true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return o.impl.(*jsonObject).dom, o.Ref(), true
	},
	free: func(o *Object) {
		o.impl.(*jsonObject).root.Clear()
	},
}

// init wires the factories that construct the counterpart container type;
// assigning them here (rather than in the var literal) avoids a static
// initialization cycle between TypeJSONObject and TypeJSONArray.
func init() {
	TypeJSONObject.clone = func(o *Object) *Object {
		return NewJSONObjectFromDOM(jsonDeepCopy(o.impl.(*jsonObject).dom))
	}
	TypeJSONObject.listFactory = func() *Object { return NewJSONArrayEmpty() }
	TypeJSONObject.dictFactory = func() *Object { return NewJSONObjectEmpty() }
}

// ----------------------------------------------------------------------
// json-array
// ----------------------------------------------------------------------

type jsonArray struct {
	jsonContainer
}

func (ja *jsonArray) listLen() uint64 {
	return uint64(ja.dom.ArrayLen())
}

func (ja *jsonArray) listGet(index uint64) *Object {
	node := ja.dom.ArrayGet(int(index))
	if node == nil {
		return nil
	}
	return ja.convertDOMNode(ja.owner, node)
}

func (ja *jsonArray) listSet(index uint64, value *Object) bool {
	node, ok := storeValue(value)
	if !ok {
		return false
	}
	if !ja.dom.ArraySet(int(index), node) {
		return false
	}
	ja.owner.markModified(&ja.root)
	return true
}

func (ja *jsonArray) listAppend(value *Object) bool {
	node, ok := storeValue(value)
	if !ok {
		return false
	}
	ja.dom.ArrayAppend(node)
	ja.owner.markModified(&ja.root)
	return true
}

func (ja *jsonArray) listUnset(index uint64) bool {
	if !ja.dom.ArrayDelete(int(index)) {
		return false
	}
	ja.owner.markModified(&ja.root)
	return true
}

// TypeJSONArray is the JSON-DOM-backed list implementation.
var TypeJSONArray = &Type{
	name:    "json_array",
	super:   TypeList,
	mutable: true,
	truthy: func(o *Object) bool {
		return true
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		return marshalJSONContainer(&o.impl.(*jsonArray).jsonContainer)
	},
	repr: func(o *Object) (string, bool) {
		return o.impl.(*jsonArray).dom.JSONString(), true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return o.impl.(*jsonArray).dom, o.Ref(), true
	},
	free: func(o *Object) {
		o.impl.(*jsonArray).root.Clear()
	},
}

// init wires the factories that construct the counterpart container type;
// assigning them here (rather than in the var literal) avoids a static
// initialization cycle between TypeJSONObject and TypeJSONArray.
func init() {
	TypeJSONArray.clone = func(o *Object) *Object {
		return NewJSONArrayFromDOM(jsonDeepCopy(o.impl.(*jsonArray).dom))
	}
	TypeJSONArray.listFactory = func() *Object { return NewJSONArrayEmpty() }
	TypeJSONArray.dictFactory = func() *Object { return NewJSONObjectEmpty() }
}

// ----------------------------------------------------------------------
// constructors
// ----------------------------------------------------------------------

// newJSONSub wraps a DOM container node reached from inside another
// container. It consumes the root reference.
func newJSONSub(node *jsonvalue.Value, root *Object) *Object {
	var obj *Object
	if node.Kind() == jsonvalue.KindArray {
		ja := &jsonArray{jsonContainer: jsonContainer{dom: node}}
		obj = NewObject(TypeJSONArray, ja)
		ja.owner = obj
		ja.root.Set(root)
	} else {
		jo := &jsonObject{jsonContainer: jsonContainer{dom: node}}
		obj = NewObject(TypeJSONObject, jo)
		jo.owner = obj
		jo.root.Set(root)
	}
	root.Unref()
	return obj
}

// NewJSONObjectFromDOM wraps an object-kind DOM node as a root container.
func NewJSONObjectFromDOM(dom *jsonvalue.Value) *Object {
	jo := &jsonObject{jsonContainer: jsonContainer{dom: dom}}
	obj := NewObject(TypeJSONObject, jo)
	jo.owner = obj
	return obj
}

// NewJSONArrayFromDOM wraps an array-kind DOM node as a root container.
func NewJSONArrayFromDOM(dom *jsonvalue.Value) *Object {
	ja := &jsonArray{jsonContainer: jsonContainer{dom: dom}}
	obj := NewObject(TypeJSONArray, ja)
	ja.owner = obj
	return obj
}

// NewJSONObjectEmpty returns a fresh empty json-object.
func NewJSONObjectEmpty() *Object {
	return NewJSONObjectFromDOM(jsonvalue.NewObject())
}

// NewJSONArrayEmpty returns a fresh empty json-array.
func NewJSONArrayEmpty() *Object {
	return NewJSONArrayFromDOM(jsonvalue.NewArray())
}

// newJSONFromDOM maps any DOM node onto its object: containers wrap, and
// scalars materialise as their primitive types.
func newJSONFromDOM(dom *jsonvalue.Value) *Object {
	switch dom.Kind() {
	case jsonvalue.KindObject:
		return NewJSONObjectFromDOM(dom)
	case jsonvalue.KindArray:
		return NewJSONArrayFromDOM(dom)
	case jsonvalue.KindBoolean:
		return NewBoolean(dom.BoolValue())
	case jsonvalue.KindInt64:
		return NewInteger(dom.Int64Value())
	case jsonvalue.KindNumber:
		return NewDouble(dom.NumberValue())
	case jsonvalue.KindString:
		return NewString(dom.StringValue())
	default:
		return NewNull()
	}
}

// ParseJSON parses JSON text into the matching filterx object.
func ParseJSON(repr string) (*Object, error) {
	dom, err := jsonvalue.ParseString(repr)
	if err != nil {
		return nil, err
	}
	return newJSONFromDOM(dom), nil
}

// JSONLiteral returns the compact JSON text behind a json container, with
// ok reporting whether the object is one.
func JSONLiteral(o *Object) (string, bool) {
	switch {
	case o.IsType(TypeJSONObject):
		return o.impl.(*jsonObject).dom.JSONString(), true
	case o.IsType(TypeJSONArray):
		return o.impl.(*jsonArray).dom.JSONString(), true
	}
	return "", false
}
