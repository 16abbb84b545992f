package filterx

import "strings"

// Variable is the name-resolution node. Names starting with "$" address
// attributes of the primary log record; bare names address scratch
// variables scoped to the evaluation.
type Variable struct {
	ExprBase
	name    string
	message bool
}

// NewVariable builds a variable read node from the spelled name.
func NewVariable(name string) *Variable {
	if stripped, ok := strings.CutPrefix(name, "$"); ok {
		return &Variable{name: stripped, message: true}
	}
	return &Variable{name: name}
}

// Name returns the resolved name without the record prefix.
func (v *Variable) Name() string { return v.name }

// Eval resolves the name. Record attributes come back as lazy
// message-values; scratch variables come back as stored.
func (v *Variable) Eval(ctx *EvalContext) (*Object, error) {
	if v.message {
		msg := ctx.Msg()
		if msg == nil {
			return nil, evalError(v, "no log message in evaluation context")
		}
		raw, tag, ok := msg.GetValue(v.name)
		if !ok {
			return nil, evalError(v, "no such record attribute %q", v.name)
		}
		return NewMessageValue(raw, tag), nil
	}

	if obj := ctx.scope.getVar(v.name); obj != nil {
		return obj, nil
	}
	return nil, evalError(v, "undefined variable %q", v.name)
}

// EvalTyped resolves the name and materialises lazy record values so the
// caller can do structural access on the result.
func (v *Variable) EvalTyped(ctx *EvalContext) (*Object, error) {
	obj, err := v.Eval(ctx)
	if err != nil {
		return nil, err
	}
	concrete := obj.Unmarshal()
	obj.Unref()
	if concrete == nil {
		return nil, evalError(v, "failed to unmarshal record attribute %q", v.name)
	}
	return concrete, nil
}

// Assign writes the rhs back through the variable: record attributes go
// through the record's setter in marshaled form (containers become their
// JSON text), scratch variables store the object itself.
type Assign struct {
	ExprBase
	target *Variable
	value  Expr
}

// NewAssign builds an assignment node.
func NewAssign(target *Variable, value Expr) *Assign {
	return &Assign{target: target, value: value}
}

// Eval evaluates the rhs and performs the write. The assigned value is the
// result, so assignments sequence naturally inside conditional bodies.
func (a *Assign) Eval(ctx *EvalContext) (*Object, error) {
	value, err := EvalTyped(a.value, ctx)
	if err != nil {
		return nil, err
	}

	if a.target.message {
		msg := ctx.Msg()
		if msg == nil {
			value.Unref()
			return nil, evalError(a, "no log message in evaluation context")
		}
		raw, tag, ok := value.Marshal()
		if !ok {
			value.Unref()
			return nil, evalError(a, "value of type %s cannot be written to the record", value.typ.name)
		}
		msg.SetValue(a.target.name, raw, tag)
		return value, nil
	}

	ctx.scope.setVar(a.target.name, value)
	return value, nil
}

// Free releases the target and the rhs subtree.
func (a *Assign) Free() {
	a.target.Free()
	a.value.Free()
}
