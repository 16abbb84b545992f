package filterx

// Merge is the binary node folding rhs into lhs: dict into dict by key,
// list into list by append. Mutable values are cloned on the way in. The
// merged lhs is the result.
type Merge struct {
	ExprBase
	lhs, rhs Expr
}

// NewMerge builds a merge node.
func NewMerge(lhs, rhs Expr) *Merge {
	return &Merge{lhs: lhs, rhs: rhs}
}

// Eval merges rhs into lhs and returns lhs.
func (m *Merge) Eval(ctx *EvalContext) (*Object, error) {
	lhs, err := m.lhs.Eval(ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := m.rhs.Eval(ctx)
	if err != nil {
		lhs.Unref()
		return nil, err
	}
	defer rhs.Unref()

	switch {
	case lhs.IsType(TypeDict):
		if !rhs.IsType(TypeDict) {
			lhs.Unref()
			return nil, evalError(m, "cannot merge %s into a dict", rhs.typ.name)
		}
		if !DictMerge(lhs, rhs) {
			lhs.Unref()
			return nil, evalError(m, "dict merge failed")
		}
		return lhs, nil

	case lhs.IsType(TypeList):
		if !rhs.IsType(TypeList) {
			lhs.Unref()
			return nil, evalError(m, "cannot merge %s into a list", rhs.typ.name)
		}
		if !ListMerge(lhs, rhs) {
			lhs.Unref()
			return nil, evalError(m, "list merge failed")
		}
		return lhs, nil
	}

	defer lhs.Unref()
	return nil, evalError(m, "merge requires containers, got %s", lhs.typ.name)
}

// Free releases both operand subtrees.
func (m *Merge) Free() {
	m.lhs.Free()
	m.rhs.Free()
}
