package filterx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildUnsetEmpties(t *testing.T, obj Expr, named ...*FunctionArg) Expr {
	t.Helper()
	all := append([]*FunctionArg{NewFunctionArg("", obj)}, named...)
	args, err := NewFunctionArgs(all)
	require.NoError(t, err)
	expr, err := NewFunctionCall("unset_empties", args)
	require.NoError(t, err)
	return expr
}

func formatted(t *testing.T, obj *Object) string {
	t.Helper()
	out, err := builtinFormatJSON([]*Object{obj})
	require.NoError(t, err)
	defer out.Unref()
	s, _ := StringValue(out)
	return s
}

func TestUnsetEmptiesRecursive(t *testing.T) {
	target, err := ParseJSON(`{"a":0,"b":{"c":""},"d":[0]}`)
	require.NoError(t, err)

	expr := buildUnsetEmpties(t, NewLiteral(target.Ref()))
	require.True(t, evalBool(t, expr))
	require.Equal(t, `{}`, formatted(t, target))
	target.Unref()
}

func TestUnsetEmptiesNonRecursive(t *testing.T) {
	target, err := ParseJSON(`{"a":"","b":{"c":""}}`)
	require.NoError(t, err)

	expr := buildUnsetEmpties(t, NewLiteral(target.Ref()),
		NewFunctionArg("recursive", NewLiteral(NewBoolean(false))))
	require.True(t, evalBool(t, expr))

	// the nested dict keeps its empty leaf and is itself non-empty
	require.Equal(t, `{"b":{"c":""}}`, formatted(t, target))
	target.Unref()
}

func TestUnsetEmptiesSelectiveFlags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		flags []*FunctionArg
		want  string
	}{
		{
			"keep strings",
			`{"s":"","n":0}`,
			[]*FunctionArg{NewFunctionArg("string", NewLiteral(NewBoolean(false)))},
			`{"s":""}`,
		},
		{
			"keep numbers",
			`{"s":"","n":0,"f":0.0}`,
			[]*FunctionArg{NewFunctionArg("number", NewLiteral(NewBoolean(false)))},
			`{"n":0,"f":0}`,
		},
		{
			"keep nulls",
			`{"x":null,"y":""}`,
			[]*FunctionArg{NewFunctionArg("null", NewLiteral(NewBoolean(false)))},
			`{"x":null}`,
		},
		{
			"keep empty dicts",
			`{"d":{},"l":[]}`,
			[]*FunctionArg{NewFunctionArg("dict", NewLiteral(NewBoolean(false)))},
			`{"d":{}}`,
		},
		{
			"keep empty lists",
			`{"d":{},"l":[]}`,
			[]*FunctionArg{NewFunctionArg("list", NewLiteral(NewBoolean(false)))},
			`{"l":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseJSON(tt.input)
			require.NoError(t, err)

			expr := buildUnsetEmpties(t, NewLiteral(target.Ref()), tt.flags...)
			require.True(t, evalBool(t, expr))
			require.Equal(t, tt.want, formatted(t, target))
			target.Unref()
		})
	}
}

func TestUnsetEmptiesOnList(t *testing.T) {
	target, err := ParseJSON(`["", "keep", 0, null, {"a":""}]`)
	require.NoError(t, err)

	expr := buildUnsetEmpties(t, NewLiteral(target.Ref()))
	require.True(t, evalBool(t, expr))
	require.Equal(t, `["keep"]`, formatted(t, target))
	target.Unref()
}

func TestUnsetEmptiesIsIdempotent(t *testing.T) {
	target, err := ParseJSON(`{"a":0,"keep":1,"b":{"c":"","d":"x"}}`)
	require.NoError(t, err)

	expr := buildUnsetEmpties(t, NewLiteral(target.Ref()))
	require.True(t, evalBool(t, expr))
	once := formatted(t, target)

	expr = buildUnsetEmpties(t, NewLiteral(target.Ref()))
	require.True(t, evalBool(t, expr))
	require.Equal(t, once, formatted(t, target))
	target.Unref()
}

func TestUnsetEmptiesConstructionErrors(t *testing.T) {
	t.Run("no arguments", func(t *testing.T) {
		args, err := NewFunctionArgs(nil)
		require.NoError(t, err)
		_, err = NewFunctionCall("unset_empties", args)
		require.Error(t, err)
	})

	t.Run("non-literal flag", func(t *testing.T) {
		args, err := NewFunctionArgs([]*FunctionArg{
			NewFunctionArg("", NewLiteral(NewJSONObjectEmpty())),
			NewFunctionArg("recursive", NewVariable("flag")),
		})
		require.NoError(t, err)
		_, err = NewFunctionCall("unset_empties", args)
		require.Error(t, err)
	})

	t.Run("non-boolean flag", func(t *testing.T) {
		args, err := NewFunctionArgs([]*FunctionArg{
			NewFunctionArg("", NewLiteral(NewJSONObjectEmpty())),
			NewFunctionArg("recursive", NewLiteral(NewString("yes"))),
		})
		require.NoError(t, err)
		_, err = NewFunctionCall("unset_empties", args)
		require.Error(t, err)
	})
}

func TestUnsetEmptiesRejectsScalars(t *testing.T) {
	expr := buildUnsetEmpties(t, NewLiteral(NewString("scalar")))
	ctx := NewEvalContext()
	defer ctx.Close()
	_, err := Eval(expr, ctx)
	require.Error(t, err)
}
