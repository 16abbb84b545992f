package filterx

// UnaryNot negates the truthiness of its operand.
type UnaryNot struct {
	ExprBase
	operand Expr
}

// NewUnaryNot builds a boolean negation node.
func NewUnaryNot(operand Expr) *UnaryNot {
	return &UnaryNot{operand: operand}
}

// Eval evaluates the operand and returns the negated boolean.
func (u *UnaryNot) Eval(ctx *EvalContext) (*Object, error) {
	result, err := u.operand.Eval(ctx)
	if err != nil {
		return nil, err
	}
	truthy := result.Truthy()
	result.Unref()
	return NewBoolean(!truthy), nil
}

// Free releases the operand subtree.
func (u *UnaryNot) Free() {
	u.operand.Free()
}

// BinaryAnd is the short-circuit conjunction: the rhs is only evaluated
// when the lhs came out truthy.
type BinaryAnd struct {
	ExprBase
	lhs, rhs Expr
}

// NewBinaryAnd builds an and node.
func NewBinaryAnd(lhs, rhs Expr) *BinaryAnd {
	return &BinaryAnd{lhs: lhs, rhs: rhs}
}

// Eval implements the short-circuit conjunction.
func (b *BinaryAnd) Eval(ctx *EvalContext) (*Object, error) {
	result, err := b.lhs.Eval(ctx)
	if err != nil {
		return nil, err
	}
	lhsTruthy := result.Truthy()
	result.Unref()

	if !lhsTruthy {
		return NewBoolean(false), nil
	}

	result, err = b.rhs.Eval(ctx)
	if err != nil {
		return nil, err
	}
	rhsTruthy := result.Truthy()
	result.Unref()

	return NewBoolean(rhsTruthy), nil
}

// Free releases both operand subtrees.
func (b *BinaryAnd) Free() {
	b.lhs.Free()
	b.rhs.Free()
}

// BinaryOr is the short-circuit disjunction: the rhs is only evaluated
// when the lhs came out falsy.
type BinaryOr struct {
	ExprBase
	lhs, rhs Expr
}

// NewBinaryOr builds an or node.
func NewBinaryOr(lhs, rhs Expr) *BinaryOr {
	return &BinaryOr{lhs: lhs, rhs: rhs}
}

// Eval implements the short-circuit disjunction.
func (b *BinaryOr) Eval(ctx *EvalContext) (*Object, error) {
	result, err := b.lhs.Eval(ctx)
	if err != nil {
		return nil, err
	}
	lhsTruthy := result.Truthy()
	result.Unref()

	if lhsTruthy {
		return NewBoolean(true), nil
	}

	result, err = b.rhs.Eval(ctx)
	if err != nil {
		return nil, err
	}
	rhsTruthy := result.Truthy()
	result.Unref()

	return NewBoolean(rhsTruthy), nil
}

// Free releases both operand subtrees.
func (b *BinaryOr) Free() {
	b.lhs.Free()
	b.rhs.Free()
}
