package filterx

import "errors"

// Conditional is one link of an if/elif/else chain: a condition, the body
// statements to run when it holds and the next link. A nil condition marks
// the trailing else, which construction keeps unique and last.
type Conditional struct {
	ExprBase
	condition   Expr
	statements  []Expr
	falseBranch *Conditional
}

// NewConditional builds a conditional code block guarded by condition.
func NewConditional(condition Expr, statements []Expr) *Conditional {
	return &Conditional{condition: condition, statements: statements}
}

// NewCodeBlock builds an unconditional code block, used as the trailing
// else of a chain.
func NewCodeBlock(statements []Expr) *Conditional {
	return NewConditional(nil, statements)
}

// AddFalseBranch appends the elif/else link to the end of the chain. Only
// the trailing branch may lack a condition; chaining past an else is a
// construction error.
func (c *Conditional) AddFalseBranch(branch *Conditional) error {
	tail := c
	for tail.falseBranch != nil {
		tail = tail.falseBranch
	}
	if tail.condition == nil {
		return errors.New("filterx: conditional already has an else branch")
	}
	tail.falseBranch = branch
	return nil
}

// Eval walks the chain: the first branch whose condition holds (or has no
// condition) runs its statements in order and yields the last result; a
// falsy or failing statement stops the block and yields false. Running off
// the end of the chain yields true.
func (c *Conditional) Eval(ctx *EvalContext) (*Object, error) {
	return evalConditional(c, ctx)
}

func evalConditional(c *Conditional, ctx *EvalContext) (*Object, error) {
	if c == nil {
		// no condition matched and there is no else
		return NewBoolean(true), nil
	}

	if c.condition != nil {
		cond, err := c.condition.Eval(ctx)
		if err != nil {
			return nil, err
		}
		truthy := cond.Truthy()
		cond.Unref()
		if !truthy {
			return evalConditional(c.falseBranch, ctx)
		}
	}

	var result *Object
	for i, stmt := range c.statements {
		result, _ = stmt.Eval(ctx)
		if result == nil || result.Falsy() {
			result.Unref()
			return NewBoolean(false), nil
		}
		if i != len(c.statements)-1 {
			result.Unref()
		}
	}
	if result == nil {
		return NewBoolean(true), nil
	}
	return result, nil
}

// Free releases the condition, the body statements and the rest of the
// chain. It tolerates a nil link so freeing a chain frees every branch.
func (c *Conditional) Free() {
	if c == nil {
		return
	}
	if c.condition != nil {
		c.condition.Free()
	}
	for _, stmt := range c.statements {
		stmt.Free()
	}
	c.falseBranch.Free()
}
