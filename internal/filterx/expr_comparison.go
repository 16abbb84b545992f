package filterx

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// Comparison operator bits. The operator part is a three-bit ordering set:
// not-equal is the union of less and greater, so any subset of {EQ, LT, GT}
// expresses one of the usual six operators.
const (
	CmpEQ = 0x0001
	CmpLT = 0x0002
	CmpGT = 0x0004
	CmpNE = CmpLT | CmpGT

	CmpTypeAware         = 0x0010
	CmpStringBased       = 0x0020
	CmpNumBased          = 0x0040
	CmpTypeAndValueBased = 0x0080

	cmpOpMask   = 0x0007
	cmpModeMask = 0x00F0
)

// Comparison evaluates both operands and applies the operator bitmask
// under one of the four comparison modes.
type Comparison struct {
	ExprBase
	lhs, rhs Expr
	operator int
}

// NewComparison builds a comparison node carrying the operator bitmask.
func NewComparison(lhs, rhs Expr, operator int) *Comparison {
	return &Comparison{lhs: lhs, rhs: rhs, operator: operator}
}

// Eval evaluates lhs then rhs and returns the boolean comparison outcome.
func (c *Comparison) Eval(ctx *EvalContext) (*Object, error) {
	lhs, err := c.lhs.Eval(ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := c.rhs.Eval(ctx)
	if err != nil {
		lhs.Unref()
		return nil, err
	}

	ordering, unordered := compareObjects(lhs, rhs, c.operator&cmpModeMask)
	lhs.Unref()
	rhs.Unref()

	op := c.operator & cmpOpMask
	var matched bool
	if unordered {
		// one side is NaN: not equal, never less or greater
		matched = op&CmpNE == CmpNE
	} else {
		matched = (op&CmpEQ != 0 && ordering == 0) ||
			(op&CmpLT != 0 && ordering < 0) ||
			(op&CmpGT != 0 && ordering > 0)
	}
	return NewBoolean(matched), nil
}

// compareObjects returns the ordering of lhs and rhs under the given mode,
// or unordered=true when a NaN participates or the mode forbids ordering.
func compareObjects(lhs, rhs *Object, mode int) (ordering int, unordered bool) {
	switch mode {
	case CmpNumBased:
		return compareNumeric(lhs, rhs)
	case CmpStringBased:
		return compareLexicographic(lhs, rhs), false
	case CmpTypeAware:
		return compareTypeAware(lhs, rhs)
	case CmpTypeAndValueBased:
		if effectiveType(lhs) != effectiveType(rhs) {
			return 0, true
		}
		return compareTypeAware(lhs, rhs)
	default:
		log.WithField("mode", mode).Error("invalid comparison mode")
		return 0, true
	}
}

func compareTypeAware(lhs, rhs *Object) (int, bool) {
	lhsNull := isNullish(lhs)
	rhsNull := isNullish(rhs)
	switch {
	case lhsNull && rhsNull:
		return 0, false
	case lhsNull:
		return -1, false
	case rhsNull:
		return 1, false
	}

	if isStringish(lhs) {
		return compareLexicographic(lhs, rhs), false
	}
	return compareNumeric(lhs, rhs)
}

func compareNumeric(lhs, rhs *Object) (int, bool) {
	a := numericValue(lhs)
	b := numericValue(rhs)
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, true
	}
	switch {
	case a < b:
		return -1, false
	case a > b:
		return 1, false
	default:
		return 0, false
	}
}

func compareLexicographic(lhs, rhs *Object) int {
	lhsRepr, _ := lhs.Repr()
	rhsRepr, _ := rhs.Repr()
	return strings.Compare(lhsRepr, rhsRepr)
}

// numericValue converts any object to a generic number, NaN when the value
// has no numeric reading.
func numericValue(o *Object) float64 {
	if gn, ok := primitiveNumber(o); ok {
		return gn.asFloat()
	}
	if s, ok := StringValue(o); ok {
		return parseNumeric(s)
	}
	if t, ok := DatetimeValue(o); ok {
		return float64(t.Unix()) + float64(t.Nanosecond())/1e9
	}
	if o.IsType(TypeMessageValue) {
		concrete := o.Unmarshal()
		if concrete == nil {
			return math.NaN()
		}
		defer concrete.Unref()
		return numericValue(concrete)
	}
	return math.NaN()
}

func parseNumeric(s string) float64 {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return math.NaN()
}

func isNullish(o *Object) bool {
	if o.IsType(TypeNull) {
		return true
	}
	if tag, ok := MessageValueType(o); ok {
		return tag == logmsg.VTNull
	}
	return false
}

// isStringish reports whether type-aware comparison treats the lhs through
// its textual representation.
func isStringish(o *Object) bool {
	return o.IsType(TypeString) || o.IsType(TypeBytes) || o.IsType(TypeProtobuf) ||
		o.IsType(TypeDict) || o.IsType(TypeList) || o.IsType(TypeMessageValue)
}

// effectiveType resolves the runtime type, looking through message-values
// to the type their tag denotes.
func effectiveType(o *Object) *Type {
	tag, ok := MessageValueType(o)
	if !ok {
		return o.typ
	}
	switch tag {
	case logmsg.VTBoolean:
		return TypeBoolean
	case logmsg.VTInteger:
		return TypeInteger
	case logmsg.VTDouble:
		return TypeDouble
	case logmsg.VTBytes:
		return TypeBytes
	case logmsg.VTProtobuf:
		return TypeProtobuf
	case logmsg.VTDatetime:
		return TypeDatetime
	case logmsg.VTJSON:
		return TypeJSONObject
	case logmsg.VTList:
		return TypeJSONArray
	case logmsg.VTNull:
		return TypeNull
	default:
		return TypeString
	}
}

// Free releases both operand subtrees.
func (c *Comparison) Free() {
	c.lhs.Free()
	c.rhs.Free()
}
