package filterx

// Weak references break circular references among nested containers
// without loop discovery. Every object can have strong refs and weak refs;
// taking a weak reference registers the target into the current scope's
// strong-ref bag, so the raw pointer stays valid for the scope's lifetime.
// At scope teardown the bag is drained; weak references are not cleared at
// that point since no code runs against the scope afterwards.

// WeakRef holds a raw pointer whose validity is bounded by the evaluation
// scope that was current when it was set.
type WeakRef struct {
	object *Object
}

// Set stores the target and parks a strong reference for it in the current
// scope so the target cannot be freed while the scope exists. A nil target
// just clears the reference.
func (w *WeakRef) Set(o *Object) {
	if o != nil {
		storeWeakRef(o)
	}
	w.object = o
}

// Clear only nulls the pointer. The scope keeps its strong reference; it
// is dropped at teardown.
func (w *WeakRef) Clear() {
	w.object = nil
}

// Get upgrades the weak reference to a new strong reference, nil when the
// weak reference is unset. Validity is assumed until the owning scope is
// torn down.
func (w *WeakRef) Get() *Object {
	return w.object.Ref()
}

// IsSet reports whether the weak reference points anywhere.
func (w *WeakRef) IsSet() bool {
	return w.object != nil
}
