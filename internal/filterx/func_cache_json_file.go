package filterx

import (
	"os"

	"github.com/cwbudde/go-filterx/internal/jsonvalue"
)

// cache_json_file("/path") loads and parses the file once at build time,
// freezes the resulting object and hands out references to it on every
// evaluation. The file read never happens at message time.

type cacheJSONFileFunction struct {
	ExprBase
	filepath string
	cached   *Object
}

func newCacheJSONFileFunction(name string, args *FunctionArgs) (Expr, error) {
	if args.Len() != 1 {
		return nil, ctorError(name, "invalid number of arguments, usage: cache_json_file(\"/path/to/file.json\")")
	}

	filepath, ok := args.GetLiteralString(0)
	if !ok {
		return nil, ctorError(name, "argument must be a string literal, usage: cache_json_file(\"/path/to/file.json\")")
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, ctorError(name, "failed to read file %s: %s", filepath, err)
	}

	dom, err := jsonvalue.Parse(data)
	if err != nil {
		return nil, ctorError(name, "failed to parse JSON file %s: %s", filepath, err)
	}

	cached := newJSONFromDOM(dom)
	cached.MakeReadonly()
	cached.Freeze()

	return &cacheJSONFileFunction{filepath: filepath, cached: cached}, nil
}

func (f *cacheJSONFileFunction) Eval(ctx *EvalContext) (*Object, error) {
	return f.cached.Ref(), nil
}

// Free releases the frozen cache when the tree is torn down.
func (f *cacheJSONFileFunction) Free() {
	if f.cached != nil {
		f.cached.UnfreezeAndFree()
		f.cached = nil
	}
}
