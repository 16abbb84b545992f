package filterx

// dictImpl is the contract a concrete dict representation provides to the
// abstract dict super type. The json-object backing is the only shipped
// implementation; tests provide doubles.
type dictImpl interface {
	dictLen() uint64
	dictGet(key *Object) *Object
	dictSet(key *Object, value *Object) bool
	dictIsSet(key *Object) bool
	dictUnset(key *Object) bool
	dictIter(fn func(key, value *Object) bool) bool
}

// TypeDict is the abstract dict super type: an insertion-ordered mapping
// from string keys to objects. Attribute access delegates to the
// string-keyed subscript.
var TypeDict = &Type{
	name:    "dict",
	super:   TypeObject,
	mutable: true,
	length: func(o *Object) (uint64, bool) {
		return o.impl.(dictImpl).dictLen(), true
	},
	getSubscript: func(o *Object, key *Object) *Object {
		if key == nil {
			log.Error("failed to get element of dict, key is mandatory")
			return nil
		}
		return o.impl.(dictImpl).dictGet(key)
	},
	setSubscript: func(o *Object, key *Object, value *Object) bool {
		if key == nil {
			log.Error("failed to set element of dict, key is mandatory")
			return false
		}
		return o.impl.(dictImpl).dictSet(key, value)
	},
	isKeySet: func(o *Object, key *Object) bool {
		if key == nil {
			log.Error("failed to check key of dict, key is mandatory")
			return false
		}
		return o.impl.(dictImpl).dictIsSet(key)
	},
	unsetKey: func(o *Object, key *Object) bool {
		if key == nil {
			log.Error("failed to unset element of dict, key is mandatory")
			return false
		}
		return o.impl.(dictImpl).dictUnset(key)
	},
	getattr: func(o *Object, attr *Object) *Object {
		return o.impl.(dictImpl).dictGet(attr)
	},
	setattr: func(o *Object, attr *Object, value *Object) bool {
		return o.impl.(dictImpl).dictSet(attr, value)
	},
}

// DictIter walks the dict in insertion order. The callback returning false
// stops the walk and makes DictIter report false.
func DictIter(o *Object, fn func(key, value *Object) bool) bool {
	if !o.IsType(TypeDict) {
		return false
	}
	return o.impl.(dictImpl).dictIter(fn)
}

// DictMerge copies every key of src into dst, cloning mutable values.
func DictMerge(dst, src *Object) bool {
	return DictIter(src, func(key, value *Object) bool {
		cloned := value.Clone()
		defer cloned.Unref()
		return dst.SetSubscript(key, cloned)
	})
}
