package filterx

// KeyValue is one key/value pair of a dict construction expression.
type KeyValue struct {
	Key   string
	Value Expr
}

// DictExpr constructs a json-object from key/value pairs evaluated in
// declaration order.
type DictExpr struct {
	ExprBase
	keyValues []KeyValue
}

// NewDictExpr builds a dict construction node.
func NewDictExpr(keyValues []KeyValue) *DictExpr {
	return &DictExpr{keyValues: keyValues}
}

// Eval creates an empty json-object and fills it pair by pair. Any
// sub-failure releases the partial object and propagates.
func (d *DictExpr) Eval(ctx *EvalContext) (*Object, error) {
	object := NewJSONObjectEmpty()

	for _, kv := range d.keyValues {
		value, err := EvalTyped(kv.Value, ctx)
		if err != nil {
			object.Unref()
			return nil, err
		}
		// setattr clones the value, immutable objects are shared cheaply
		ok := object.SetattrString(kv.Key, value)
		value.Unref()
		if !ok {
			object.Unref()
			return nil, evalError(d, "failed to set dict key %q", kv.Key)
		}
	}
	return object, nil
}

// Free releases the value subtrees.
func (d *DictExpr) Free() {
	for _, kv := range d.keyValues {
		kv.Value.Free()
	}
}
