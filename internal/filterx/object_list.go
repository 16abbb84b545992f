package filterx

// listImpl is the contract a concrete list representation provides to the
// abstract list super type, which owns index normalization.
type listImpl interface {
	listLen() uint64
	listGet(index uint64) *Object
	listSet(index uint64, value *Object) bool
	listAppend(value *Object) bool
	listUnset(index uint64) bool
}

// normalizeListIndex maps possibly negative indices onto the valid range.
// Negative indices count from the end; anything out of range fails.
func normalizeListIndex(index int64, length uint64) (uint64, bool) {
	if index >= 0 {
		if uint64(index) >= length {
			return 0, false
		}
		return uint64(index), true
	}
	normalized := int64(length) + index
	if normalized < 0 {
		return 0, false
	}
	return uint64(normalized), true
}

func listIndexFromKey(o *Object, key *Object, op string) (uint64, bool) {
	index, ok := IntegerValue(key)
	if !ok {
		log.WithFields(map[string]any{"op": op, "index_type": key.typ.name}).
			Error("list index must be an integer")
		return 0, false
	}
	normalized, ok := normalizeListIndex(index, o.impl.(listImpl).listLen())
	if !ok {
		log.WithFields(map[string]any{"op": op, "index": index}).
			Error("list index out of range")
		return 0, false
	}
	return normalized, true
}

// TypeList is the abstract list super type: an ordered sequence indexed by
// int64, with append expressed as a subscript set without a key.
var TypeList = &Type{
	name:    "list",
	super:   TypeObject,
	mutable: true,
	length: func(o *Object) (uint64, bool) {
		return o.impl.(listImpl).listLen(), true
	},
	getSubscript: func(o *Object, key *Object) *Object {
		if key == nil {
			log.Error("failed to get element of list, index is mandatory")
			return nil
		}
		index, ok := listIndexFromKey(o, key, "get")
		if !ok {
			return nil
		}
		return o.impl.(listImpl).listGet(index)
	},
	setSubscript: func(o *Object, key *Object, value *Object) bool {
		if key == nil {
			return o.impl.(listImpl).listAppend(value)
		}
		index, ok := listIndexFromKey(o, key, "set")
		if !ok {
			return false
		}
		return o.impl.(listImpl).listSet(index, value)
	},
	isKeySet: func(o *Object, key *Object) bool {
		if key == nil {
			log.Error("failed to check index of list, index is mandatory")
			return false
		}
		index, ok := IntegerValue(key)
		if !ok {
			return false
		}
		_, ok = normalizeListIndex(index, o.impl.(listImpl).listLen())
		return ok
	},
	unsetKey: func(o *Object, key *Object) bool {
		if key == nil {
			log.Error("failed to unset element of list, index is mandatory")
			return false
		}
		index, ok := listIndexFromKey(o, key, "unset")
		if !ok {
			return false
		}
		return o.impl.(listImpl).listUnset(index)
	},
}

// ListGetIndex reads the element at a possibly negative index.
func ListGetIndex(o *Object, index int64) *Object {
	key := NewInteger(index)
	defer key.Unref()
	return o.GetSubscript(key)
}

// ListSetIndex replaces the element at a possibly negative index.
func ListSetIndex(o *Object, index int64, value *Object) bool {
	key := NewInteger(index)
	defer key.Unref()
	return o.SetSubscript(key, value)
}

// ListAppend appends to the list through the keyless subscript set.
func ListAppend(o *Object, value *Object) bool {
	return o.SetSubscript(nil, value)
}

// ListUnsetIndex removes the element at a possibly negative index.
func ListUnsetIndex(o *Object, index int64) bool {
	key := NewInteger(index)
	defer key.Unref()
	return o.UnsetKey(key)
}

// ListMerge appends every element of src to dst, cloning mutable values.
func ListMerge(dst, src *Object) bool {
	length, ok := src.Len()
	if !ok {
		return false
	}
	for i := uint64(0); i < length; i++ {
		elem := ListGetIndex(src, int64(i))
		if elem == nil {
			return false
		}
		cloned := elem.Clone()
		elem.Unref()
		success := ListAppend(dst, cloned)
		cloned.Unref()
		if !success {
			return false
		}
	}
	return true
}
