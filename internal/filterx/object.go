// Package filterx implements the core of the filterx expression language:
// the dynamic object model with its type dispatch tables, the expression
// tree evaluator, the per-evaluation scope with weak references, and the
// built-in function set. Hosts build expression trees once at configuration
// time and evaluate them per log record through Eval.
package filterx

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/go-filterx/internal/jsonvalue"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

var log = logrus.WithField("component", "filterx")

// Type is the dispatch table describing how objects of one runtime type
// behave. All method slots are optional; RegisterType fills missing slots
// from the super type chain, which gives single inheritance the way the
// container super types use it.
type Type struct {
	name    string
	super   *Type
	mutable bool

	unmarshal    func(o *Object) *Object
	marshal      func(o *Object) (string, logmsg.ValueType, bool)
	clone        func(o *Object) *Object
	mapToJSON    func(o *Object) (*jsonvalue.Value, *Object, bool)
	truthy       func(o *Object) bool
	getattr      func(o *Object, attr *Object) *Object
	setattr      func(o *Object, attr *Object, value *Object) bool
	getSubscript func(o *Object, key *Object) *Object
	setSubscript func(o *Object, key *Object, value *Object) bool
	isKeySet     func(o *Object, key *Object) bool
	unsetKey     func(o *Object, key *Object) bool
	listFactory  func() *Object
	dictFactory  func() *Object
	repr         func(o *Object) (string, bool)
	length       func(o *Object) (uint64, bool)
	free         func(o *Object)
}

// Name returns the registered type name.
func (t *Type) Name() string { return t.name }

// Super returns the super type, nil for the root object type.
func (t *Type) Super() *Type { return t.super }

// IsMutable reports whether instances start out writable.
func (t *Type) IsMutable() bool { return t.mutable }

// frozenRefCnt is the sentinel reference count of interned objects.
const frozenRefCnt = math.MaxInt32

// Object is the unit of value in filterx: a reference-counted cell tagged
// with a type. The reference count is not atomic; an object lives and dies
// on the goroutine that created it, which the final unref asserts.
type Object struct {
	typ             *Type
	refCnt          int32
	goroutineID     uint64
	readonly        bool
	modifiedInPlace bool
	weakReferenced  bool
	impl            any
}

// TypeObject is the root of the type hierarchy; every object is_type of it.
var TypeObject = &Type{name: "object", free: func(o *Object) {}}

// NewObject allocates an object of the given type with a reference count of
// one. The object starts readonly unless its type is mutable.
func NewObject(typ *Type, impl any) *Object {
	return &Object{
		typ:         typ,
		refCnt:      1,
		goroutineID: curGoroutineID(),
		readonly:    !typ.mutable,
		impl:        impl,
	}
}

// Type returns the object's type descriptor.
func (o *Object) Type() *Type { return o.typ }

// IsReadonly reports whether mutations are rejected.
func (o *Object) IsReadonly() bool { return o.readonly }

// MakeReadonly marks the object unmodifiable. Readonly propagates lazily to
// children as they are read out of containers.
func (o *Object) MakeReadonly() { o.readonly = true }

// ModifiedInPlace reports whether a mutating operation succeeded on this
// object since the host last reset the flag.
func (o *Object) ModifiedInPlace() bool { return o.modifiedInPlace }

// ResetModifiedInPlace clears the dirty flag. The core itself never clears
// it; hosts that track dirty state reset it before evaluation.
func (o *Object) ResetModifiedInPlace() { o.modifiedInPlace = false }

// RefCount exposes the current reference count to tests.
func (o *Object) RefCount() int32 { return o.refCnt }

// IsFrozen reports whether the object is an interned singleton.
func (o *Object) IsFrozen() bool { return o.refCnt == frozenRefCnt }

// Ref acquires a new strong reference and returns the same pointer. On a
// frozen object it is a no-op. Ref of nil is nil, which lets error paths
// pass failures through untouched.
func (o *Object) Ref() *Object {
	if o == nil {
		return nil
	}
	if o.IsFrozen() {
		return o
	}
	o.refCnt++
	return o
}

// Unref releases a strong reference. When the last reference drops, the
// creating goroutine must be the destroying one; a mismatch means objects
// leaked across goroutines and is a fatal programmer error.
func (o *Object) Unref() {
	if o == nil {
		return
	}
	if o.IsFrozen() {
		return
	}
	if o.refCnt <= 0 {
		panic("filterx: unref of an already freed object")
	}
	o.refCnt--
	if o.refCnt == 0 {
		if o.goroutineID != curGoroutineID() {
			panic("filterx: object crossed a goroutine boundary")
		}
		if o.typ.free != nil {
			o.typ.free(o)
		}
		o.impl = nil
	}
}

// Freeze interns the object: its reference count becomes a sentinel and
// ref/unref turn into no-ops. Freeze requires exactly one outstanding
// reference. It reports whether the object transitioned.
func (o *Object) Freeze() bool {
	if o.IsFrozen() {
		return false
	}
	if o.refCnt != 1 {
		panic("filterx: freeze requires a sole reference")
	}
	o.refCnt = frozenRefCnt
	return true
}

// UnfreezeAndFree returns a frozen object to normal life and drops the held
// reference. Since Freeze only accepts a sole reference and Ref is a no-op
// while frozen, this frees the object.
func (o *Object) UnfreezeAndFree() {
	if !o.IsFrozen() {
		panic("filterx: unfreeze of an object that is not frozen")
	}
	o.refCnt = 1
	o.Unref()
}

// CacheObject interns an object into a package-level slot. Used by the
// singleton constructors (null, true, false) at startup.
func CacheObject(slot **Object, o *Object) {
	o.Freeze()
	*slot = o
}

// UncacheObject releases an interned slot.
func UncacheObject(slot **Object) {
	if *slot == nil {
		return
	}
	(*slot).UnfreezeAndFree()
	*slot = nil
}

// IsType walks the super type chain of the object's type and reports
// whether typ appears on it.
func (o *Object) IsType(typ *Type) bool {
	for t := o.typ; t != nil; t = t.super {
		if t == typ {
			return true
		}
	}
	return false
}

// Truthy reports the boolean interpretation of the object.
func (o *Object) Truthy() bool {
	if o.typ.truthy == nil {
		return false
	}
	return o.typ.truthy(o)
}

// Falsy is the negation of Truthy.
func (o *Object) Falsy() bool { return !o.Truthy() }

// Unmarshal materialises the concrete typed object behind a lazy value.
// Types without an unmarshal step return themselves with a new reference.
func (o *Object) Unmarshal() *Object {
	if o.typ.unmarshal != nil {
		return o.typ.unmarshal(o)
	}
	return o.Ref()
}

// Marshal renders the object into the record-side textual form plus its
// semantic type tag.
func (o *Object) Marshal() (string, logmsg.ValueType, bool) {
	if o.typ.marshal == nil {
		return "", logmsg.VTNull, false
	}
	return o.typ.marshal(o)
}

// Repr produces the human-readable representation used by string casts,
// string-based comparison and error messages.
func (o *Object) Repr() (string, bool) {
	if o.typ.repr == nil {
		return "", false
	}
	return o.typ.repr(o)
}

// Len returns the container length when the type supports it.
func (o *Object) Len() (uint64, bool) {
	if o.typ.length == nil {
		return 0, false
	}
	return o.typ.length(o)
}

// Clone produces an independent writable copy of a mutable object. A
// readonly object is shared by taking a new reference instead.
func (o *Object) Clone() *Object {
	if o.readonly {
		return o.Ref()
	}
	return o.typ.clone(o)
}

// MapToJSON converts the object into a JSON DOM node for storage inside a
// container. The second return is the "associated object": the object the
// container will hand back on subsequent reads of that node. When the type
// does not designate one, the object itself is associated.
func (o *Object) MapToJSON() (*jsonvalue.Value, *Object, bool) {
	if o.typ.mapToJSON == nil {
		return nil, nil, false
	}
	node, assoc, ok := o.typ.mapToJSON(o)
	if !ok {
		return nil, nil, false
	}
	if assoc == nil {
		assoc = o.Ref()
	}
	return node, assoc, true
}

// Getattr reads a string-keyed attribute. Readonly containers hand out
// readonly children.
func (o *Object) Getattr(attr *Object) *Object {
	if o.typ.getattr == nil {
		return nil
	}
	result := o.typ.getattr(o, attr)
	if result != nil && o.readonly {
		result.MakeReadonly()
	}
	return result
}

// Setattr writes a string-keyed attribute. Mutating a readonly object
// fails.
func (o *Object) Setattr(attr *Object, value *Object) bool {
	if o.readonly {
		log.WithField("type", o.typ.name).Error("setattr on a readonly object")
		return false
	}
	if o.typ.setattr == nil {
		return false
	}
	return o.typ.setattr(o, attr, value)
}

// GetattrString is Getattr with a plain Go string key.
func (o *Object) GetattrString(attr string) *Object {
	attrObj := NewString(attr)
	defer attrObj.Unref()
	return o.Getattr(attrObj)
}

// SetattrString is Setattr with a plain Go string key.
func (o *Object) SetattrString(attr string, value *Object) bool {
	attrObj := NewString(attr)
	defer attrObj.Unref()
	return o.Setattr(attrObj, value)
}

// GetSubscript reads an object-keyed element. Readonly containers hand out
// readonly children.
func (o *Object) GetSubscript(key *Object) *Object {
	if o.typ.getSubscript == nil {
		return nil
	}
	result := o.typ.getSubscript(o, key)
	if result != nil && o.readonly {
		result.MakeReadonly()
	}
	return result
}

// SetSubscript writes an object-keyed element. A nil key appends on lists.
// Mutating a readonly object fails.
func (o *Object) SetSubscript(key *Object, value *Object) bool {
	if o.readonly {
		log.WithField("type", o.typ.name).Error("set_subscript on a readonly object")
		return false
	}
	if o.typ.setSubscript == nil {
		return false
	}
	return o.typ.setSubscript(o, key, value)
}

// IsKeySet reports whether the key resolves inside the container.
func (o *Object) IsKeySet(key *Object) bool {
	if o.typ.isKeySet == nil {
		return false
	}
	return o.typ.isKeySet(o, key)
}

// UnsetKey removes an element. Mutating a readonly object fails.
func (o *Object) UnsetKey(key *Object) bool {
	if o.readonly {
		log.WithField("type", o.typ.name).Error("unset_key on a readonly object")
		return false
	}
	if o.typ.unsetKey == nil {
		return false
	}
	return o.typ.unsetKey(o, key)
}

// CreateList builds a new empty list of the representation this object's
// type prefers for siblings.
func (o *Object) CreateList() *Object {
	if o.typ.listFactory == nil {
		return nil
	}
	return o.typ.listFactory()
}

// CreateDict builds a new empty dict of the representation this object's
// type prefers for siblings.
func (o *Object) CreateDict() *Object {
	if o.typ.dictFactory == nil {
		return nil
	}
	return o.typ.dictFactory()
}

// markModified sets the dirty flag here and, through the root weak
// reference, on the root container, so whole-record dirty detection stays
// O(1) per mutation.
func (o *Object) markModified(root *WeakRef) {
	o.modifiedInPlace = true
	if root == nil {
		return
	}
	if rootObj := root.Get(); rootObj != nil {
		rootObj.modifiedInPlace = true
		rootObj.Unref()
	}
}
