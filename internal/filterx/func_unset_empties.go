package filterx

// unset_empties(object, recursive=true, string=true, number=true,
// null=true, dict=true, list=true) removes "empty" children from a dict or
// list in place. With recursive set, nested containers are cleaned before
// their parent is judged, so a dict holding only empties collapses away
// entirely. All flags are optional boolean literals.

const unsetEmptiesUsage = "usage: unset_empties(object, recursive=true, string=true, null=true, number=true, dict=true, list=true)"

type unsetEmptiesFunction struct {
	ExprBase
	objectExpr Expr

	recursive   bool
	dropStrings bool
	dropNulls   bool
	dropNumbers bool
	dropDicts   bool
	dropLists   bool
}

func newUnsetEmptiesFunction(name string, args *FunctionArgs) (Expr, error) {
	if args.Len() != 1 {
		return nil, ctorError(name, "invalid number of arguments, %s", unsetEmptiesUsage)
	}

	f := &unsetEmptiesFunction{
		objectExpr:  args.GetExpr(0),
		recursive:   true,
		dropStrings: true,
		dropNulls:   true,
		dropNumbers: true,
		dropDicts:   true,
		dropLists:   true,
	}

	flags := []struct {
		argName string
		target  *bool
	}{
		{"recursive", &f.recursive},
		{"string", &f.dropStrings},
		{"null", &f.dropNulls},
		{"number", &f.dropNumbers},
		{"dict", &f.dropDicts},
		{"list", &f.dropLists},
	}
	for _, flag := range flags {
		value, exists, ok := args.GetNamedLiteralBoolean(flag.argName)
		if !exists {
			continue
		}
		if !ok {
			return nil, ctorError(name, "%s argument must be a boolean literal, %s", flag.argName, unsetEmptiesUsage)
		}
		*flag.target = value
	}
	return f, nil
}

func (f *unsetEmptiesFunction) Eval(ctx *EvalContext) (*Object, error) {
	obj, err := f.objectExpr.Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer obj.Unref()

	switch {
	case obj.IsType(TypeDict):
		if err := f.processDict(obj); err != nil {
			return nil, err
		}
	case obj.IsType(TypeList):
		if err := f.processList(obj); err != nil {
			return nil, err
		}
	default:
		return nil, evalError(f, "object must be a dict or a list, %s", unsetEmptiesUsage)
	}
	return NewBoolean(true), nil
}

func (f *unsetEmptiesFunction) shouldUnset(obj *Object) bool {
	switch {
	case obj.IsType(TypeString):
		if !f.dropStrings {
			return false
		}
		length, _ := obj.Len()
		return length == 0

	case obj.IsType(TypeNull):
		return f.dropNulls

	case obj.IsType(TypeInteger), obj.IsType(TypeDouble):
		if !f.dropNumbers {
			return false
		}
		gn, _ := primitiveNumber(obj)
		return gn.isZero()

	case obj.IsType(TypeDict):
		if !f.dropDicts {
			return false
		}
		length, _ := obj.Len()
		return length == 0

	case obj.IsType(TypeList):
		if !f.dropLists {
			return false
		}
		length, _ := obj.Len()
		return length == 0
	}
	return false
}

func (f *unsetEmptiesFunction) recurse(value *Object) error {
	if !f.recursive {
		return nil
	}
	if value.IsType(TypeDict) {
		return f.processDict(value)
	}
	if value.IsType(TypeList) {
		return f.processList(value)
	}
	return nil
}

func (f *unsetEmptiesFunction) processDict(obj *Object) error {
	var keysToUnset []*Object
	defer func() {
		for _, key := range keysToUnset {
			key.Unref()
		}
	}()

	var walkErr error
	ok := DictIter(obj, func(key, value *Object) bool {
		if walkErr = f.recurse(value); walkErr != nil {
			return false
		}
		if f.shouldUnset(value) {
			keysToUnset = append(keysToUnset, key.Ref())
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}
	if !ok {
		return evalError(f, "dict iteration failed")
	}

	for _, key := range keysToUnset {
		if !obj.UnsetKey(key) {
			return evalError(f, "failed to unset dict key")
		}
	}
	return nil
}

func (f *unsetEmptiesFunction) processList(obj *Object) error {
	length, _ := obj.Len()
	// walk backwards so unsetting does not shift pending indices
	for i := int64(length) - 1; i >= 0; i-- {
		elem := ListGetIndex(obj, i)
		if elem == nil {
			return evalError(f, "failed to read list element %d", i)
		}
		err := f.recurse(elem)
		if err == nil && f.shouldUnset(elem) {
			if !ListUnsetIndex(obj, i) {
				err = evalError(f, "failed to unset list element %d", i)
			}
		}
		elem.Unref()
		if err != nil {
			return err
		}
	}
	return nil
}

// Free releases the target subtree.
func (f *unsetEmptiesFunction) Free() {
	f.objectExpr.Free()
}
