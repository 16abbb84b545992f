package filterx

// istype(object, "typename") resolves the type name in the registry at
// build time and tests super type chain membership at message time. The
// type name must be a literal string, which makes every misuse a
// configuration error instead of a per-message surprise.

type isTypeFunction struct {
	ExprBase
	lhs Expr
	typ *Type
}

func newIsTypeFunction(name string, args *FunctionArgs) (Expr, error) {
	if args.Len() != 2 {
		return nil, ctorError(name, "invalid number of arguments, usage: istype(object, type_str)")
	}

	typeName, ok := args.GetLiteralString(1)
	if !ok {
		return nil, ctorError(name, "type_str must be a string literal, usage: istype(object, type_str)")
	}

	typ := LookupType(typeName)
	if typ == nil {
		return nil, ctorError(name, "unknown type %q", typeName)
	}

	return &isTypeFunction{lhs: args.GetExpr(0), typ: typ}, nil
}

func (f *isTypeFunction) Eval(ctx *EvalContext) (*Object, error) {
	lhs, err := f.lhs.Eval(ctx)
	if err != nil {
		return nil, err
	}
	result := lhs.IsType(f.typ)
	lhs.Unref()
	return NewBoolean(result), nil
}

// Free releases the inspected subtree.
func (f *isTypeFunction) Free() {
	f.lhs.Free()
}
