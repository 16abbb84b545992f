package filterx

import "fmt"

// FunctionErrorCode classifies failures surfaced while building function
// call expressions.
type FunctionErrorCode int

const (
	// FunctionNotFound means neither the builtin registry nor the ctor
	// registry knows the name.
	FunctionNotFound FunctionErrorCode = iota
	// CtorFail covers every malformed-argument situation: wrong arity,
	// non-literal where a literal is required, unknown type name, invalid
	// separator and similar.
	CtorFail
)

// FunctionError is the build-time error value of the function-call layer.
// It is never produced at message time; the host configuration loader
// aborts on it.
type FunctionError struct {
	Code     FunctionErrorCode
	Function string
	Message  string
}

func (e *FunctionError) Error() string {
	switch e.Code {
	case FunctionNotFound:
		return fmt.Sprintf("filterx: function %q not found", e.Function)
	default:
		return fmt.Sprintf("filterx: %s(): %s", e.Function, e.Message)
	}
}

func ctorError(function, format string, args ...any) *FunctionError {
	return &FunctionError{Code: CtorFail, Function: function, Message: fmt.Sprintf(format, args...)}
}

// Location ties an expression node to its place in the configuration file.
// The grammar attaches it at construction; the core only reports it.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) set() bool { return l.Line > 0 }

func (l Location) String() string {
	if l.File != "" {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// EvalError is the runtime error of the evaluator. Evaluation errors
// short-circuit the current expression; a node that sees one from a child
// releases partial work and passes it up.
type EvalError struct {
	Loc     Location
	Message string
}

func (e *EvalError) Error() string {
	if e.Loc.set() {
		return fmt.Sprintf("filterx: %s: %s", e.Loc, e.Message)
	}
	return "filterx: " + e.Message
}

// evalError creates an EvalError stamped with the failing node's location.
func evalError(node any, format string, args ...any) error {
	e := &EvalError{Message: fmt.Sprintf(format, args...)}
	if located, ok := node.(interface{ Location() Location }); ok {
		e.Loc = located.Location()
	}
	return e
}
