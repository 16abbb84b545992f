package filterx

import (
	"regexp"
	"strconv"

	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// The regexp nodes compile their pattern once at construction and match at
// message time against a string left hand side. The match expression
// yields a boolean; the search generator materialises the captures into a
// fillable container, keyed by group number when the pattern has no named
// groups (a list) and by name otherwise (a dict).

func compilePattern(pattern string) (*regexp.Regexp, error) {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		log.WithField("pattern", pattern).WithError(err).Error("failed to compile regexp pattern")
		return nil, err
	}
	return compiled, nil
}

func hasNamedCaptureGroups(pattern *regexp.Regexp) bool {
	for _, name := range pattern.SubexpNames() {
		if name != "" {
			return true
		}
	}
	return false
}

// regexpLHS extracts the subject string; only string objects and
// string-tagged message-values qualify.
func regexpLHS(node any, ctx *EvalContext, lhsExpr Expr) (string, error) {
	lhs, err := lhsExpr.Eval(ctx)
	if err != nil {
		return "", err
	}
	defer lhs.Unref()

	if s, ok := StringValue(lhs); ok {
		return s, nil
	}
	if tag, ok := MessageValueType(lhs); ok && tag == logmsg.VTString {
		raw, _ := MessageValueRaw(lhs)
		return raw, nil
	}
	return "", evalError(node, "regexp matching left hand side must be a string, got %s", lhs.typ.name)
}

// RegexpMatch evaluates whether the lhs matches the pattern.
type RegexpMatch struct {
	ExprBase
	lhs     Expr
	pattern *regexp.Regexp
}

// NewRegexpMatch builds a match node, compiling the pattern.
func NewRegexpMatch(lhs Expr, pattern string) (*RegexpMatch, error) {
	compiled, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexpMatch{lhs: lhs, pattern: compiled}, nil
}

// Eval returns boolean(matched).
func (r *RegexpMatch) Eval(ctx *EvalContext) (*Object, error) {
	subject, err := regexpLHS(r, ctx, r.lhs)
	if err != nil {
		return nil, err
	}
	return NewBoolean(r.pattern.MatchString(subject)), nil
}

// RegexpSearchGenerator pushes the capture groups of the first match into
// the fillable container.
type RegexpSearchGenerator struct {
	ExprBase
	lhs     Expr
	pattern *regexp.Regexp
}

// NewRegexpSearchGenerator builds a search generator, compiling the
// pattern.
func NewRegexpSearchGenerator(lhs Expr, pattern string) (*RegexpSearchGenerator, error) {
	compiled, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexpSearchGenerator{lhs: lhs, pattern: compiled}, nil
}

// CreateContainer picks a dict when the pattern has named capture groups
// and a list otherwise, built by the parent container's factories.
func (r *RegexpSearchGenerator) CreateContainer(ctx *EvalContext, fillableParent Expr) (*Object, error) {
	parent, err := EvalTyped(fillableParent, ctx)
	if err != nil {
		return nil, err
	}
	defer parent.Unref()

	var container *Object
	if hasNamedCaptureGroups(r.pattern) {
		container = parent.CreateDict()
	} else {
		container = parent.CreateList()
	}
	if container == nil {
		return nil, evalError(r, "parent container cannot create the capture container")
	}
	return container, nil
}

// Generate matches and stores the captures. A non-match generates nothing
// and is not an error.
func (r *RegexpSearchGenerator) Generate(ctx *EvalContext, fillable *Object) error {
	subject, err := regexpLHS(r, ctx, r.lhs)
	if err != nil {
		return err
	}

	indices := r.pattern.FindStringSubmatchIndex(subject)
	if indices == nil {
		return nil
	}

	switch {
	case fillable.IsType(TypeList):
		return r.storeMatchesToList(subject, indices, fillable)
	case fillable.IsType(TypeDict):
		return r.storeMatchesToDict(subject, indices, fillable)
	}
	return evalError(r, "invalid fillable type %s for regexp captures", fillable.typ.name)
}

func (r *RegexpSearchGenerator) storeMatchesToList(subject string, indices []int, fillable *Object) error {
	for i := 0; 2*i < len(indices); i++ {
		begin, end := indices[2*i], indices[2*i+1]
		if begin < 0 || end < 0 {
			continue
		}
		value := NewString(subject[begin:end])
		success := ListAppend(fillable, value)
		value.Unref()
		if success {
			continue
		}
		return evalError(r, "failed to append regexp capture %d", i)
	}
	return nil
}

func (r *RegexpSearchGenerator) storeMatchesToDict(subject string, indices []int, fillable *Object) error {
	// first pass: every capture under its group number
	for i := 0; 2*i < len(indices); i++ {
		begin, end := indices[2*i], indices[2*i+1]
		if begin < 0 || end < 0 {
			continue
		}
		key := NewString(strconv.Itoa(i))
		value := NewString(subject[begin:end])
		success := fillable.SetSubscript(key, value)
		key.Unref()
		value.Unref()
		if !success {
			return evalError(r, "failed to add regexp capture %d", i)
		}
	}

	// second pass: rename the named groups, dropping their numeric keys
	for i, name := range r.pattern.SubexpNames() {
		if name == "" {
			continue
		}
		begin, end := indices[2*i], indices[2*i+1]
		if begin < 0 || end < 0 {
			continue
		}
		numKey := NewString(strconv.Itoa(i))
		key := NewString(name)
		value := fillable.GetSubscript(numKey)

		success := value != nil && fillable.SetSubscript(key, value)
		if success {
			success = fillable.UnsetKey(numKey)
		}
		numKey.Unref()
		key.Unref()
		value.Unref()
		if !success {
			return evalError(r, "failed to add regexp capture %q", name)
		}
	}
	return nil
}

// Free releases the subject subtree.
func (r *RegexpMatch) Free() {
	r.lhs.Free()
}

// Free releases the subject subtree.
func (r *RegexpSearchGenerator) Free() {
	r.lhs.Free()
}
