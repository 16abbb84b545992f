package filterx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDictExprBuildsJSONObject(t *testing.T) {
	expr := NewDictExpr([]KeyValue{
		{Key: "name", Value: NewLiteral(NewString("eta"))},
		{Key: "count", Value: NewLiteral(NewInteger(3))},
		{Key: "ratio", Value: NewLiteral(NewDouble(0.5))},
	})

	ctx := NewEvalContext()
	defer ctx.Close()
	result, err := Eval(expr, ctx)
	require.NoError(t, err)
	defer result.Unref()

	require.True(t, result.IsType(TypeJSONObject))
	repr, _ := result.Repr()
	require.Equal(t, `{"name":"eta","count":3,"ratio":0.5}`, repr)
}

func TestDictExprPropagatesValueFailure(t *testing.T) {
	expr := NewDictExpr([]KeyValue{
		{Key: "ok", Value: NewLiteral(NewString("x"))},
		{Key: "bad", Value: NewVariable("$missing")},
	})

	ctx := NewEvalContext()
	defer ctx.Close()
	_, err := Eval(expr, ctx)
	require.Error(t, err)
}

func TestListExprFillsTarget(t *testing.T) {
	fillable := NewLiteral(NewJSONArrayEmpty())
	expr := NewListExpr(fillable, []Expr{
		NewLiteral(NewString("a")),
		NewLiteral(NewInteger(2)),
	})

	ctx := NewEvalContext()
	defer ctx.Close()
	result, err := Eval(expr, ctx)
	require.NoError(t, err)
	defer result.Unref()

	repr, _ := result.Repr()
	require.Equal(t, `["a",2]`, repr)
}

func TestListExprRejectsNonList(t *testing.T) {
	expr := NewListExpr(NewLiteral(NewJSONObjectEmpty()), nil)

	ctx := NewEvalContext()
	defer ctx.Close()
	_, err := Eval(expr, ctx)
	require.Error(t, err)
}

func TestInnerListExprDerivesSibling(t *testing.T) {
	parent := NewJSONObjectEmpty()
	expr := NewInnerListExpr(NewLiteral(parent), []Expr{
		NewLiteral(NewString("x")),
	})

	ctx := NewEvalContext()
	defer ctx.Close()
	result, err := Eval(expr, ctx)
	require.NoError(t, err)
	defer result.Unref()

	require.True(t, result.IsType(TypeJSONArray))
	repr, _ := result.Repr()
	require.Equal(t, `["x"]`, repr)
}

func TestLiteralHandsOutFreshRefs(t *testing.T) {
	obj := NewString("shared")
	lit := NewLiteral(obj)
	defer lit.Free()

	ctx := NewEvalContext()
	defer ctx.Close()

	first, err := Eval(lit, ctx)
	require.NoError(t, err)
	second, err := Eval(lit, ctx)
	require.NoError(t, err)

	require.Same(t, first, second)
	first.Unref()
	second.Unref()

	require.True(t, IsLiteral(lit))
	require.False(t, IsLiteral(NewVariable("x")))
}

func TestTreeFreeReleasesOwnedObjects(t *testing.T) {
	obj := NewString("owned")
	obj.Ref() // keep one reference to observe the drop

	chain := NewConditional(NewLiteral(NewBoolean(true)), []Expr{
		NewBinaryAnd(
			NewUnaryNot(NewLiteral(obj)),
			NewComparison(NewLiteral(NewInteger(1)), NewLiteral(NewInteger(2)), CmpEQ|CmpNumBased)),
	})
	require.NoError(t, chain.AddFalseBranch(NewCodeBlock([]Expr{
		NewAssign(NewVariable("a"), NewLiteral(NewString("x"))),
	})))

	before := obj.RefCount()
	chain.Free()
	require.Equal(t, before-1, obj.RefCount(), "freeing the tree must drop the literal's reference")
	obj.Unref()
}
