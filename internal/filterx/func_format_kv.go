package filterx

import "strings"

// format_kv(kvs_dict, value_separator="=", pair_separator=", ") renders a
// flat dict as key/value text. Values whose repr contains a space are
// emitted double-quoted with escaping; nested containers are skipped with
// a debug log. The separators are validated at build time.

const formatKVUsage = "usage: format_kv(kvs_dict, value_separator=\"=\", pair_separator=\", \")"

type formatKVFunction struct {
	ExprBase
	kvs            Expr
	valueSeparator byte
	pairSeparator  string
}

func newFormatKVFunction(name string, args *FunctionArgs) (Expr, error) {
	if args.Len() != 1 {
		return nil, ctorError(name, "invalid number of arguments, %s", formatKVUsage)
	}

	f := &formatKVFunction{
		kvs:            args.GetExpr(0),
		valueSeparator: '=',
		pairSeparator:  ", ",
	}

	if value, exists, ok := args.GetNamedLiteralString("value_separator"); exists {
		if !ok {
			return nil, ctorError(name, "value_separator must be a string literal, %s", formatKVUsage)
		}
		if len(value) != 1 {
			return nil, ctorError(name, "value_separator must be a single character, %s", formatKVUsage)
		}
		f.valueSeparator = value[0]
	}

	if value, exists, ok := args.GetNamedLiteralString("pair_separator"); exists {
		if !ok {
			return nil, ctorError(name, "pair_separator must be a string literal, %s", formatKVUsage)
		}
		if len(value) == 0 {
			return nil, ctorError(name, "pair_separator must be non-zero length, %s", formatKVUsage)
		}
		f.pairSeparator = value
	}

	return f, nil
}

func (f *formatKVFunction) Eval(ctx *EvalContext) (*Object, error) {
	kvs, err := EvalTyped(f.kvs, ctx)
	if err != nil {
		return nil, err
	}
	defer kvs.Unref()

	if !kvs.IsType(TypeDict) {
		return nil, evalError(f, "kvs_dict must be a dict, %s", formatKVUsage)
	}

	var buffer []byte
	ok := DictIter(kvs, func(key, value *Object) bool {
		var kvOK bool
		buffer, kvOK = f.appendKV(buffer, key, value)
		return kvOK
	})
	if !ok {
		return nil, evalError(f, "failed to format dict")
	}
	return NewString(string(buffer)), nil
}

func (f *formatKVFunction) appendKV(buffer []byte, key, value *Object) ([]byte, bool) {
	if value.IsType(TypeDict) || value.IsType(TypeList) {
		log.WithField("type", value.typ.name).Debug("format_kv(): skipping object, type not supported")
		return buffer, true
	}

	if len(buffer) > 0 {
		buffer = append(buffer, f.pairSeparator...)
	}

	keyRepr, ok := key.Repr()
	if !ok {
		return buffer, false
	}
	buffer = append(buffer, keyRepr...)
	buffer = append(buffer, f.valueSeparator)

	valueRepr, ok := value.Repr()
	if !ok {
		return buffer, false
	}
	// TODO: make the quote-forcing character set configurable
	if strings.IndexByte(valueRepr, ' ') >= 0 {
		buffer = append(buffer, '"')
		buffer = appendEscapedBinary(buffer, valueRepr, "\"")
		buffer = append(buffer, '"')
	} else {
		buffer = append(buffer, valueRepr...)
	}
	return buffer, true
}

// Free releases the kvs subtree.
func (f *formatKVFunction) Free() {
	f.kvs.Free()
}
