package filterx

// Generator is the contract of expression nodes that materialise a
// sequence of values into a host-provided container instead of returning a
// single value. CreateContainer picks the container shape from the parent
// the result will land in; Generate fills it.
type Generator interface {
	CreateContainer(ctx *EvalContext, fillableParent Expr) (*Object, error)
	Generate(ctx *EvalContext, fillable *Object) error
}

// GeneratorExpr drives a Generator: it derives the fillable container from
// the parent expression, runs the generator into it and yields the
// container.
type GeneratorExpr struct {
	ExprBase
	generator      Generator
	fillableParent Expr
}

// NewGeneratorExpr binds a generator to the container parent it fills
// into.
func NewGeneratorExpr(generator Generator, fillableParent Expr) *GeneratorExpr {
	return &GeneratorExpr{generator: generator, fillableParent: fillableParent}
}

// Eval creates the container and generates into it.
func (g *GeneratorExpr) Eval(ctx *EvalContext) (*Object, error) {
	fillable, err := g.generator.CreateContainer(ctx, g.fillableParent)
	if err != nil {
		return nil, err
	}
	if err := g.generator.Generate(ctx, fillable); err != nil {
		fillable.Unref()
		return nil, err
	}
	return fillable, nil
}

// Free releases the generator and the fillable parent subtree.
func (g *GeneratorExpr) Free() {
	if owner, ok := g.generator.(interface{ Free() }); ok {
		owner.Free()
	}
	g.fillableParent.Free()
}
