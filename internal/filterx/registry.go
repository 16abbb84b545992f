package filterx

import "sync"

// The type registry and the builtin function registries are process-wide.
// They are populated during startup (InitGlobals and host registrations)
// and read-only afterwards; the mutex only guards against racy init code.

var (
	registryMu   sync.Mutex
	typeRegistry = map[string]*Type{}

	builtinFunctions = map[string]SimpleFunc{}
	builtinCtors     = map[string]FunctionCtor{}
)

// RegisterType completes the descriptor by copying missing method slots
// from the super type chain and registers it under its name. Registering a
// name twice keeps the first entry and reports false.
func RegisterType(t *Type) bool {
	initTypeMethods(t)

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := typeRegistry[t.name]; exists {
		log.WithField("name", t.name).Error("reregistering filterx type")
		return false
	}
	typeRegistry[t.name] = t
	return true
}

// LookupType resolves a type descriptor by name, nil when unknown.
func LookupType(name string) *Type {
	registryMu.Lock()
	defer registryMu.Unlock()
	return typeRegistry[name]
}

func initTypeMethods(t *Type) {
	for super := t.super; super != nil; super = super.super {
		if t.unmarshal == nil {
			t.unmarshal = super.unmarshal
		}
		if t.marshal == nil {
			t.marshal = super.marshal
		}
		if t.clone == nil {
			t.clone = super.clone
		}
		if t.mapToJSON == nil {
			t.mapToJSON = super.mapToJSON
		}
		if t.truthy == nil {
			t.truthy = super.truthy
		}
		if t.getattr == nil {
			t.getattr = super.getattr
		}
		if t.setattr == nil {
			t.setattr = super.setattr
		}
		if t.getSubscript == nil {
			t.getSubscript = super.getSubscript
		}
		if t.setSubscript == nil {
			t.setSubscript = super.setSubscript
		}
		if t.isKeySet == nil {
			t.isKeySet = super.isKeySet
		}
		if t.unsetKey == nil {
			t.unsetKey = super.unsetKey
		}
		if t.listFactory == nil {
			t.listFactory = super.listFactory
		}
		if t.dictFactory == nil {
			t.dictFactory = super.dictFactory
		}
		if t.repr == nil {
			t.repr = super.repr
		}
		if t.length == nil {
			t.length = super.length
		}
		if t.free == nil {
			t.free = super.free
		}
	}
}

// RegisterBuiltin registers a simple builtin function: a callable receiving
// evaluated argument objects. It reports false if the name is taken.
func RegisterBuiltin(name string, fn SimpleFunc) bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := builtinFunctions[name]; exists {
		return false
	}
	builtinFunctions[name] = fn
	return true
}

// LookupBuiltin resolves a simple builtin, nil when unknown.
func LookupBuiltin(name string) SimpleFunc {
	registryMu.Lock()
	defer registryMu.Unlock()
	return builtinFunctions[name]
}

// RegisterBuiltinCtor registers a function constructor, invoked at tree
// build time with the argument bundle. It reports false if the name is
// taken.
func RegisterBuiltinCtor(name string, ctor FunctionCtor) bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := builtinCtors[name]; exists {
		return false
	}
	builtinCtors[name] = ctor
	return true
}

// LookupBuiltinCtor resolves a function constructor, nil when unknown.
func LookupBuiltinCtor(name string) FunctionCtor {
	registryMu.Lock()
	defer registryMu.Unlock()
	return builtinCtors[name]
}
