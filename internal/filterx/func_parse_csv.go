package filterx

import (
	"github.com/cwbudde/go-filterx/internal/csvscanner"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// parse_csv(msg, [cols], [delimiters], [dialect], [greedy],
// [strip_whitespaces]) splits a string into columns. Without column names
// the result is a json-array of the values; with a literal list of column
// names it is a json-object keyed by them, the name count capping how many
// columns are read. Every optional argument is positional and may be the
// literal null to keep its default.

const parseCSVUsage = "usage: parse_csv(msg_str [, [json_array cols], [string delimiters], " +
	"[string dialect], [boolean greedy], [boolean strip_whitespaces]])"

type parseCSVFunction struct {
	ExprBase
	subject Expr
	columns []string
	opts    csvscanner.Options
}

func newParseCSVFunction(name string, args *FunctionArgs) (Expr, error) {
	if args.Len() < 1 || args.Len() > 6 {
		return nil, ctorError(name, "invalid number of arguments, %s", parseCSVUsage)
	}

	f := &parseCSVFunction{subject: args.GetExpr(0)}

	if err := f.extractColumns(name, args); err != nil {
		return nil, err
	}
	if err := f.extractDelimiters(name, args); err != nil {
		return nil, err
	}
	if err := f.extractDialect(name, args); err != nil {
		return nil, err
	}
	var err error
	f.opts.Greedy, err = extractOptionalLiteralBool(name, args, 4, "greedy")
	if err != nil {
		return nil, err
	}
	f.opts.StripWhitespace, err = extractOptionalLiteralBool(name, args, 5, "strip_whitespaces")
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (f *parseCSVFunction) extractColumns(name string, args *FunctionArgs) error {
	if args.Len() < 2 || args.IsLiteralNull(1) {
		return nil
	}
	cols := args.GetObject(1)
	if cols == nil {
		return ctorError(name, "cols must be a literal, %s", parseCSVUsage)
	}
	defer cols.Unref()

	if !cols.IsType(TypeList) {
		return ctorError(name, "cols must be a list of strings, %s", parseCSVUsage)
	}
	length, _ := cols.Len()
	for i := uint64(0); i < length; i++ {
		col := ListGetIndex(cols, int64(i))
		if col == nil {
			return ctorError(name, "failed to read column name %d", i)
		}
		colName, ok := StringValue(col)
		col.Unref()
		if !ok {
			return ctorError(name, "cols must be a list of strings, %s", parseCSVUsage)
		}
		f.columns = append(f.columns, colName)
	}
	f.opts.ExpectedColumns = len(f.columns)
	return nil
}

func (f *parseCSVFunction) extractDelimiters(name string, args *FunctionArgs) error {
	if args.Len() < 3 || args.IsLiteralNull(2) {
		return nil
	}
	delimiters, ok := args.GetLiteralString(2)
	if !ok {
		return ctorError(name, "delimiters must be a string literal, %s", parseCSVUsage)
	}
	if delimiters == "" {
		return ctorError(name, "delimiters must be non-zero length, %s", parseCSVUsage)
	}
	f.opts.Delimiters = delimiters
	return nil
}

func (f *parseCSVFunction) extractDialect(name string, args *FunctionArgs) error {
	if args.Len() < 4 || args.IsLiteralNull(3) {
		return nil
	}
	dialectName, ok := args.GetLiteralString(3)
	if !ok {
		return ctorError(name, "dialect must be a string literal, %s", parseCSVUsage)
	}
	dialect, ok := csvscanner.ParseDialect(dialectName)
	if !ok {
		return ctorError(name, "unknown dialect %q, %s", dialectName, parseCSVUsage)
	}
	f.opts.Dialect = dialect
	return nil
}

func extractOptionalLiteralBool(name string, args *FunctionArgs, index int, argName string) (bool, error) {
	if args.Len() <= index || args.IsLiteralNull(index) {
		return false, nil
	}
	obj := args.GetObject(index)
	if obj == nil {
		return false, ctorError(name, "%s must be a boolean literal, %s", argName, parseCSVUsage)
	}
	defer obj.Unref()
	value, ok := BooleanValue(obj)
	if !ok {
		return false, ctorError(name, "%s must be a boolean literal, %s", argName, parseCSVUsage)
	}
	return value, nil
}

func (f *parseCSVFunction) Eval(ctx *EvalContext) (*Object, error) {
	subjectObj, err := f.subject.Eval(ctx)
	if err != nil {
		return nil, err
	}
	subject, ok := csvTextArg(subjectObj)
	subjectObj.Unref()
	if !ok {
		return nil, evalError(f, "parse_csv() argument must be a string")
	}

	scanner := csvscanner.New(subject, f.opts)
	if f.columns == nil {
		return f.fillList(scanner)
	}
	return f.fillDict(scanner)
}

func (f *parseCSVFunction) fillList(scanner *csvscanner.Scanner) (*Object, error) {
	result := NewJSONArrayEmpty()
	for scanner.Scan() {
		value := NewString(scanner.Value())
		success := ListAppend(result, value)
		value.Unref()
		if !success {
			result.Unref()
			return nil, evalError(f, "failed to append csv column")
		}
	}
	return result, nil
}

func (f *parseCSVFunction) fillDict(scanner *csvscanner.Scanner) (*Object, error) {
	result := NewJSONObjectEmpty()
	for _, column := range f.columns {
		if !scanner.Scan() {
			break
		}
		value := NewString(scanner.Value())
		success := result.SetattrString(column, value)
		value.Unref()
		if !success {
			result.Unref()
			return nil, evalError(f, "failed to set csv column %q", column)
		}
	}
	return result, nil
}

func (f *parseCSVFunction) Free() {
	f.subject.Free()
}

func csvTextArg(arg *Object) (string, bool) {
	if s, ok := StringValue(arg); ok {
		return s, true
	}
	if tag, ok := MessageValueType(arg); ok && tag == logmsg.VTString {
		raw, _ := MessageValueRaw(arg)
		return raw, true
	}
	return "", false
}
