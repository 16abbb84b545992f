package filterx

import (
	"sync"

	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// Scope is the per-evaluation lifetime boundary. It keeps a strong
// reference to every weakly referenced object until teardown and owns the
// scratch variables of the evaluation. A scope is single-goroutine; it is
// bound to the calling goroutine for the duration of each Eval call.
type Scope struct {
	weakRefs []*Object
	vars     map[string]*Object
	varOrder []string
}

func newScope() *Scope {
	return &Scope{vars: make(map[string]*Object)}
}

func (s *Scope) storeWeakRef(o *Object) {
	o.weakReferenced = true
	s.weakRefs = append(s.weakRefs, o.Ref())
}

func (s *Scope) getVar(name string) *Object {
	return s.vars[name].Ref()
}

func (s *Scope) setVar(name string, value *Object) {
	if old, exists := s.vars[name]; exists {
		old.Unref()
	} else {
		s.varOrder = append(s.varOrder, name)
	}
	s.vars[name] = value.Ref()
}

// teardown drains the strong-ref bag and the scratch variables
// unconditionally, including on failure paths. Weak references become
// dangling from here on; no evaluation code runs against this scope
// afterwards.
func (s *Scope) teardown() {
	for _, o := range s.weakRefs {
		o.Unref()
	}
	s.weakRefs = nil
	for _, name := range s.varOrder {
		s.vars[name].Unref()
	}
	s.vars = nil
	s.varOrder = nil
}

// The object layer needs the current scope when a weak reference is taken
// deep inside container construction, where no context parameter exists.
// Scopes are registered per goroutine; one evaluation runs end-to-end on
// the caller's goroutine, so there is at most one live scope per key.
var (
	currentScopesMu sync.Mutex
	currentScopes   = map[uint64]*Scope{}
)

func bindScope(s *Scope) {
	currentScopesMu.Lock()
	defer currentScopesMu.Unlock()
	currentScopes[curGoroutineID()] = s
}

func unbindScope() {
	currentScopesMu.Lock()
	defer currentScopesMu.Unlock()
	delete(currentScopes, curGoroutineID())
}

func currentScope() *Scope {
	currentScopesMu.Lock()
	defer currentScopesMu.Unlock()
	return currentScopes[curGoroutineID()]
}

// storeWeakRef parks a strong reference in the current scope. Outside any
// evaluation (tree build time) there is no scope and nothing to park; the
// weak reference then relies on its owner holding the target alive, which
// holds for the frozen build-time singletons.
func storeWeakRef(o *Object) {
	if s := currentScope(); s != nil {
		s.storeWeakRef(o)
	}
}

// EvalContext carries everything one evaluation runs against: the log
// messages under inspection and the scope. Create one with NewEvalContext,
// evaluate any number of expressions of one tree generation against it,
// then Close it; objects returned by Eval are valid until Close.
type EvalContext struct {
	Msgs []*logmsg.Message

	scope *Scope
}

// NewEvalContext opens a scope around the given messages.
func NewEvalContext(msgs ...*logmsg.Message) *EvalContext {
	return &EvalContext{Msgs: msgs, scope: newScope()}
}

// Msg returns the primary message, nil when the context carries none.
func (ctx *EvalContext) Msg() *logmsg.Message {
	if len(ctx.Msgs) == 0 {
		return nil
	}
	return ctx.Msgs[0]
}

// Close tears the scope down. Every object produced by evaluations against
// this context becomes invalid.
func (ctx *EvalContext) Close() {
	if ctx.scope != nil {
		ctx.scope.teardown()
		ctx.scope = nil
	}
}

// Eval is the evaluation entry point: it binds the context's scope to the
// calling goroutine, dispatches into the expression and returns the
// resulting object. The result stays readable until ctx.Close.
func Eval(expr Expr, ctx *EvalContext) (*Object, error) {
	if ctx.scope == nil {
		ctx.scope = newScope()
	}
	bindScope(ctx.scope)
	defer unbindScope()
	return expr.Eval(ctx)
}
