package filterx

// Literal wraps an already materialised object; evaluation hands out fresh
// references to it. The evaluator recognises literal nodes for build-time
// constant extraction, for example the type name argument of istype.
type Literal struct {
	ExprBase
	object *Object
}

// NewLiteral creates a literal node. It takes the object reference.
func NewLiteral(object *Object) *Literal {
	return &Literal{object: object}
}

// Eval returns a fresh reference to the wrapped object.
func (l *Literal) Eval(ctx *EvalContext) (*Object, error) {
	return l.object.Ref(), nil
}

// Free releases the wrapped object.
func (l *Literal) Free() {
	l.object.Unref()
}

// IsLiteral reports whether the expression is a literal node.
func IsLiteral(e Expr) bool {
	_, ok := e.(*Literal)
	return ok
}

// LiteralObject returns a fresh reference to a literal node's object, nil
// for any other node kind.
func LiteralObject(e Expr) *Object {
	if lit, ok := e.(*Literal); ok {
		return lit.object.Ref()
	}
	return nil
}
