package filterx

// Expr is an expression tree node. Trees are built once at configuration
// time and are immutable afterwards; evaluation never changes tree
// structure. Eval returns a new strong reference on success and an error
// describing the failure otherwise, never both. Free releases the strong
// object references a node owns, recursing into its children; hosts call
// it on the root when a tree generation is retired.
type Expr interface {
	Eval(ctx *EvalContext) (*Object, error)
	Free()
}

// TypedExpr is implemented by nodes that can guarantee a typed result: one
// that is never a lazy message-value, so structural access works on it
// directly. EvalTyped is used where the result feeds container operations,
// for example the rhs of assignments and construction nodes.
type TypedExpr interface {
	Expr
	EvalTyped(ctx *EvalContext) (*Object, error)
}

// EvalTyped evaluates through the typed entry point when the node has one.
func EvalTyped(e Expr, ctx *EvalContext) (*Object, error) {
	if typed, ok := e.(TypedExpr); ok {
		return typed.EvalTyped(ctx)
	}
	return e.Eval(ctx)
}

// ExprBase carries the source location shared by every node kind. The
// grammar fills it in through SetLocation right after construction.
type ExprBase struct {
	loc Location
}

// Location returns where the node was written in the configuration.
func (b *ExprBase) Location() Location { return b.loc }

// SetLocation attaches the configuration file position to the node.
func (b *ExprBase) SetLocation(loc Location) { b.loc = loc }

// Free is the default no-op teardown for nodes that own no object
// references. Nodes holding objects or children shadow it.
func (b *ExprBase) Free() {}
