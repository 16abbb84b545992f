package filterx

// SimpleFunc is the simple builtin shape: a callable receiving the
// evaluated argument objects. The callee borrows the arguments; it refs
// whatever it keeps.
type SimpleFunc func(args []*Object) (*Object, error)

// FunctionCtor is the constructor builtin shape: it receives the argument
// bundle at expression build time and returns a specialised node, which
// lets it validate literal-only parameters before any message flows.
type FunctionCtor func(name string, args *FunctionArgs) (Expr, error)

// FunctionArg is a single argument of a function call: positional when
// Name is empty, named otherwise.
type FunctionArg struct {
	Name  string
	Value Expr
}

// NewFunctionArg wraps an argument expression, optionally named.
func NewFunctionArg(name string, value Expr) *FunctionArg {
	return &FunctionArg{Name: name, Value: value}
}

// FunctionArgs is the argument bundle handed to function constructors. It
// distinguishes positional from named arguments and offers the literal
// extraction helpers constructors use for build-time validation.
type FunctionArgs struct {
	positional []Expr
	named      []*FunctionArg
}

// NewFunctionArgs sorts arguments into positional and named. Positional
// arguments may not follow named ones.
func NewFunctionArgs(args []*FunctionArg) (*FunctionArgs, error) {
	bundle := &FunctionArgs{}
	for _, arg := range args {
		if arg.Name == "" {
			if len(bundle.named) > 0 {
				return nil, ctorError("", "positional argument after named arguments")
			}
			bundle.positional = append(bundle.positional, arg.Value)
			continue
		}
		bundle.named = append(bundle.named, arg)
	}
	return bundle, nil
}

// Len returns the number of positional arguments.
func (a *FunctionArgs) Len() int {
	return len(a.positional)
}

// GetExpr returns the positional argument expression at index, nil when
// out of range.
func (a *FunctionArgs) GetExpr(index int) Expr {
	if index < 0 || index >= len(a.positional) {
		return nil
	}
	return a.positional[index]
}

// GetObject evaluates the positional argument at index. Only literal
// subtrees are safe to evaluate at build time; anything else yields nil.
func (a *FunctionArgs) GetObject(index int) *Object {
	return literalValue(a.GetExpr(index))
}

// GetLiteralString extracts a literal string positional argument. ok is
// false when the argument is absent or not a literal string.
func (a *FunctionArgs) GetLiteralString(index int) (string, bool) {
	obj := a.GetObject(index)
	if obj == nil {
		return "", false
	}
	defer obj.Unref()
	return StringValue(obj)
}

// IsLiteralNull reports whether the positional argument is the literal
// null.
func (a *FunctionArgs) IsLiteralNull(index int) bool {
	obj := a.GetObject(index)
	if obj == nil {
		return false
	}
	defer obj.Unref()
	return obj.IsType(TypeNull)
}

// GetNamedExpr returns the named argument's expression, nil when absent.
func (a *FunctionArgs) GetNamedExpr(name string) Expr {
	for _, arg := range a.named {
		if arg.Name == name {
			return arg.Value
		}
	}
	return nil
}

// GetNamedObject evaluates the named argument. exists distinguishes an
// absent argument from one set to the literal null.
func (a *FunctionArgs) GetNamedObject(name string) (obj *Object, exists bool) {
	expr := a.GetNamedExpr(name)
	if expr == nil {
		return nil, false
	}
	return literalValue(expr), true
}

// GetNamedLiteralString extracts a named literal string argument. exists
// reports presence; ok reports that the present argument was a literal
// string.
func (a *FunctionArgs) GetNamedLiteralString(name string) (value string, exists, ok bool) {
	obj, exists := a.GetNamedObject(name)
	if !exists {
		return "", false, false
	}
	if obj == nil {
		return "", true, false
	}
	defer obj.Unref()
	value, ok = StringValue(obj)
	return value, true, ok
}

// GetNamedLiteralBoolean extracts a named literal boolean argument. exists
// reports presence; ok reports that the present argument was a literal
// boolean.
func (a *FunctionArgs) GetNamedLiteralBoolean(name string) (value bool, exists, ok bool) {
	obj, exists := a.GetNamedObject(name)
	if !exists {
		return false, false, false
	}
	if obj == nil {
		return false, true, false
	}
	defer obj.Unref()
	value, ok = BooleanValue(obj)
	return value, true, ok
}

func literalValue(expr Expr) *Object {
	if expr == nil {
		return nil
	}
	return LiteralObject(expr)
}

// FunctionCall is the expression node for simple builtin functions: it
// evaluates the positional arguments left to right and hands them to the
// callable.
type FunctionCall struct {
	ExprBase
	name string
	args []Expr
	fn   SimpleFunc
}

// Eval evaluates the arguments in order and applies the function.
func (f *FunctionCall) Eval(ctx *EvalContext) (*Object, error) {
	args := make([]*Object, 0, len(f.args))
	release := func() {
		for _, arg := range args {
			arg.Unref()
		}
	}
	for _, argExpr := range f.args {
		obj, err := argExpr.Eval(ctx)
		if err != nil {
			release()
			return nil, err
		}
		args = append(args, obj)
	}

	result, err := f.fn(args)
	release()
	if err != nil {
		return nil, evalError(f, "%s(): %s", f.name, err)
	}
	return result, nil
}

// NewFunctionCall resolves a function name at build time and returns the
// call node. Lookup order: the simple builtin registry first, then the
// constructor registry standing in for the plugin namespace.
func NewFunctionCall(name string, args *FunctionArgs) (Expr, error) {
	if fn := LookupBuiltin(name); fn != nil {
		if len(args.named) > 0 {
			return nil, ctorError(name, "function does not accept named arguments")
		}
		return &FunctionCall{name: name, args: args.positional, fn: fn}, nil
	}

	if ctor := LookupBuiltinCtor(name); ctor != nil {
		expr, err := ctor(name, args)
		if err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, &FunctionError{Code: FunctionNotFound, Function: name}
}

// Free releases the argument subtrees.
func (f *FunctionCall) Free() {
	for _, arg := range f.args {
		arg.Free()
	}
}
