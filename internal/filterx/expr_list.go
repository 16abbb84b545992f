package filterx

// ListExpr fills a list-typed container with the values evaluated in
// declaration order. The fillable expression resolves the target; the
// outer variant writes into it directly while the inner variant first
// derives a sibling list from it, so nested literals inherit the parent's
// representation choice.
type ListExpr struct {
	ExprBase
	fillable Expr
	values   []Expr
	inner    bool
}

// NewListExpr builds a list construction node filling the given container.
func NewListExpr(fillable Expr, values []Expr) *ListExpr {
	return &ListExpr{fillable: fillable, values: values}
}

// NewInnerListExpr builds a nested list construction node: the fillable
// expression resolves the parent and a new sibling list is created through
// the parent's list factory.
func NewInnerListExpr(fillable Expr, values []Expr) *ListExpr {
	return &ListExpr{fillable: fillable, values: values, inner: true}
}

// Eval resolves the fillable container and appends a clone of each value.
func (l *ListExpr) Eval(ctx *EvalContext) (*Object, error) {
	fillable, err := l.resolveFillable(ctx)
	if err != nil {
		return nil, err
	}

	if !fillable.IsType(TypeList) {
		fillable.Unref()
		return nil, evalError(l, "list construction target is %s, not a list", fillable.typ.name)
	}

	for _, valueExpr := range l.values {
		if err := l.evalValue(ctx, fillable, valueExpr); err != nil {
			fillable.Unref()
			return nil, err
		}
	}
	return fillable, nil
}

func (l *ListExpr) resolveFillable(ctx *EvalContext) (*Object, error) {
	target, err := EvalTyped(l.fillable, ctx)
	if err != nil {
		return nil, err
	}
	if !l.inner {
		return target, nil
	}

	sibling := target.CreateList()
	target.Unref()
	if sibling == nil {
		return nil, evalError(l, "parent container cannot create lists")
	}
	return sibling, nil
}

func (l *ListExpr) evalValue(ctx *EvalContext, fillable *Object, valueExpr Expr) error {
	value, err := EvalTyped(valueExpr, ctx)
	if err != nil {
		return err
	}
	cloned := value.Clone()
	value.Unref()

	success := ListAppend(fillable, cloned)
	cloned.Unref()
	if !success {
		return evalError(l, "failed to append list element")
	}
	return nil
}

// Free releases the fillable and value subtrees.
func (l *ListExpr) Free() {
	l.fillable.Free()
	for _, value := range l.values {
		value.Free()
	}
}
