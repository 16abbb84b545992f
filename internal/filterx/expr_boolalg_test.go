package filterx

import "testing"

// countingExpr records how many times it was evaluated, which makes
// short-circuit behaviour observable.
type countingExpr struct {
	ExprBase
	count  int
	result bool
}

func (c *countingExpr) Eval(ctx *EvalContext) (*Object, error) {
	c.count++
	return NewBoolean(c.result), nil
}

func evalBool(t *testing.T, expr Expr) bool {
	t.Helper()
	ctx := NewEvalContext()
	defer ctx.Close()

	result, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	defer result.Unref()
	b, ok := BooleanValue(result)
	if !ok {
		t.Fatalf("result is %s, want boolean", result.Type().Name())
	}
	return b
}

func TestUnaryNot(t *testing.T) {
	tests := []struct {
		name    string
		operand *Object
		want    bool
	}{
		{"not true", NewBoolean(true), false},
		{"not false", NewBoolean(false), true},
		{"not nonempty string", NewString("x"), false},
		{"not null", NewNull(), true},
		{"not zero", NewInteger(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalBool(t, NewUnaryNot(NewLiteral(tt.operand))); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBinaryAndTruthTable(t *testing.T) {
	tests := []struct {
		lhs, rhs bool
		want     bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, tt := range tests {
		got := evalBool(t, NewBinaryAnd(
			NewLiteral(NewBoolean(tt.lhs)), NewLiteral(NewBoolean(tt.rhs))))
		if got != tt.want {
			t.Errorf("%v and %v = %v, want %v", tt.lhs, tt.rhs, got, tt.want)
		}
	}
}

func TestBinaryOrTruthTable(t *testing.T) {
	tests := []struct {
		lhs, rhs bool
		want     bool
	}{
		{true, true, true},
		{true, false, true},
		{false, true, true},
		{false, false, false},
	}
	for _, tt := range tests {
		got := evalBool(t, NewBinaryOr(
			NewLiteral(NewBoolean(tt.lhs)), NewLiteral(NewBoolean(tt.rhs))))
		if got != tt.want {
			t.Errorf("%v or %v = %v, want %v", tt.lhs, tt.rhs, got, tt.want)
		}
	}
}

func TestAndShortCircuits(t *testing.T) {
	rhs := &countingExpr{result: true}
	if got := evalBool(t, NewBinaryAnd(NewLiteral(NewBoolean(false)), rhs)); got {
		t.Fatal("false and x should be false")
	}
	if rhs.count != 0 {
		t.Fatalf("rhs evaluated %d times after a falsy lhs, want 0", rhs.count)
	}

	if got := evalBool(t, NewBinaryAnd(NewLiteral(NewBoolean(true)), rhs)); !got {
		t.Fatal("true and true should be true")
	}
	if rhs.count != 1 {
		t.Fatalf("rhs evaluated %d times after a truthy lhs, want 1", rhs.count)
	}
}

func TestOrShortCircuits(t *testing.T) {
	rhs := &countingExpr{result: false}
	if got := evalBool(t, NewBinaryOr(NewLiteral(NewBoolean(true)), rhs)); !got {
		t.Fatal("true or x should be true")
	}
	if rhs.count != 0 {
		t.Fatalf("rhs evaluated %d times after a truthy lhs, want 0", rhs.count)
	}

	if got := evalBool(t, NewBinaryOr(NewLiteral(NewBoolean(false)), rhs)); got {
		t.Fatal("false or false should be false")
	}
	if rhs.count != 1 {
		t.Fatalf("rhs evaluated %d times after a falsy lhs, want 1", rhs.count)
	}
}

func TestNotPropagatesFailure(t *testing.T) {
	ctx := NewEvalContext()
	defer ctx.Close()

	if _, err := Eval(NewUnaryNot(NewVariable("$missing")), ctx); err == nil {
		t.Fatal("not over a failing operand should fail")
	}
}
