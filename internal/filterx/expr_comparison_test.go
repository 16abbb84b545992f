package filterx

import (
	"testing"
	"time"

	"github.com/cwbudde/go-filterx/internal/logmsg"
)

func evalComparison(t *testing.T, lhs, rhs *Object, operator int) bool {
	t.Helper()
	ctx := NewEvalContext()
	defer ctx.Close()

	expr := NewComparison(NewLiteral(lhs), NewLiteral(rhs), operator)
	result, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("comparison eval failed: %v", err)
	}
	defer result.Unref()
	b, ok := BooleanValue(result)
	if !ok {
		t.Fatalf("comparison yielded %s, want boolean", result.Type().Name())
	}
	return b
}

func TestComparisonNumBased(t *testing.T) {
	tests := []struct {
		name     string
		lhs, rhs *Object
		operator int
		want     bool
	}{
		{"6 == 6", NewInteger(6), NewInteger(6), CmpEQ | CmpNumBased, true},
		{"6 != 6", NewInteger(6), NewInteger(6), CmpNE | CmpNumBased, false},
		{"3 < 4", NewInteger(3), NewInteger(4), CmpLT | CmpNumBased, true},
		{"4 > 3.5", NewInteger(4), NewDouble(3.5), CmpGT | CmpNumBased, true},
		{"string parses", NewString("10"), NewInteger(10), CmpEQ | CmpNumBased, true},
		{"null coerces to 0", NewNull(), NewInteger(0), CmpEQ | CmpNumBased, true},
		{"boolean coerces to 1", NewBoolean(true), NewInteger(1), CmpEQ | CmpNumBased, true},
		{"unparsable is never equal", NewString("pear"), NewInteger(0), CmpEQ | CmpNumBased, false},
		{"unparsable is always ne", NewString("pear"), NewInteger(0), CmpNE | CmpNumBased, true},
		{"unparsable is never less", NewString("pear"), NewInteger(1 << 30), CmpLT | CmpNumBased, false},
		{"unparsable is never greater", NewString("pear"), NewInteger(-(1 << 30)), CmpGT | CmpNumBased, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalComparison(t, tt.lhs, tt.rhs, tt.operator); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComparisonStringBased(t *testing.T) {
	tests := []struct {
		name     string
		lhs, rhs *Object
		operator int
		want     bool
	}{
		{"equal strings", NewString("alma"), NewString("alma"), CmpEQ | CmpStringBased, true},
		{"lexicographic less", NewString("alma"), NewString("korte"), CmpLT | CmpStringBased, true},
		{"number reprs compare", NewInteger(3), NewString("3"), CmpEQ | CmpStringBased, true},
		{"boolean repr", NewBoolean(true), NewString("true"), CmpEQ | CmpStringBased, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalComparison(t, tt.lhs, tt.rhs, tt.operator); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComparisonTypeAware(t *testing.T) {
	tests := []struct {
		name     string
		lhs, rhs *Object
		operator int
		want     bool
	}{
		// lhs string pushes the comparison onto the string path
		{"string 3 equals int 3", NewString("3"), NewInteger(3), CmpEQ | CmpTypeAware, true},
		// numeric lhs goes numeric even against a string rhs
		{"int 3 equals string 3", NewInteger(3), NewString("3"), CmpEQ | CmpTypeAware, true},
		{"null below anything", NewNull(), NewInteger(-100), CmpLT | CmpTypeAware, true},
		{"null equals null", NewNull(), NewNull(), CmpEQ | CmpTypeAware, true},
		{"anything above null", NewString(""), NewNull(), CmpGT | CmpTypeAware, true},
		{"message value is string based", NewMessageValue("3", logmsg.VTString), NewInteger(3), CmpEQ | CmpTypeAware, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalComparison(t, tt.lhs, tt.rhs, tt.operator); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComparisonTypeAndValueBased(t *testing.T) {
	tests := []struct {
		name     string
		lhs, rhs *Object
		operator int
		want     bool
	}{
		{"same type same value", NewInteger(5), NewInteger(5), CmpEQ | CmpTypeAndValueBased, true},
		{"type mismatch is not equal", NewString("5"), NewInteger(5), CmpEQ | CmpTypeAndValueBased, false},
		{"type mismatch is ne", NewString("5"), NewInteger(5), CmpNE | CmpTypeAndValueBased, true},
		{"type mismatch never orders", NewString("5"), NewInteger(5), CmpLT | CmpTypeAndValueBased, false},
		{"same type different value", NewInteger(5), NewInteger(6), CmpEQ | CmpTypeAndValueBased, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalComparison(t, tt.lhs, tt.rhs, tt.operator); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComparisonDatetime(t *testing.T) {
	earlier := time.Unix(1701350398, 123000*1000).UTC()
	later := time.Unix(1701350399, 0).UTC()

	if !evalComparison(t, NewDatetime(earlier), NewDatetime(later), CmpLT|CmpNumBased) {
		t.Error("earlier datetime should order below later")
	}
	half := time.Unix(1701350398, 500000*1000).UTC()
	if !evalComparison(t, NewDatetime(half), NewDouble(1701350398.5), CmpEQ|CmpNumBased) {
		t.Error("datetime should compare by fractional epoch seconds")
	}
	// the canonical textual form fixes the string comparison
	if !evalComparison(t, NewString("1701350398.123000+00:00"), NewDatetime(earlier), CmpEQ|CmpTypeAware) {
		t.Error("datetime repr should equal its canonical form")
	}
}

func TestComparisonNEIsExactlyLTOrGT(t *testing.T) {
	if CmpNE != CmpLT|CmpGT {
		t.Fatalf("NE = %#x, want LT|GT = %#x", CmpNE, CmpLT|CmpGT)
	}
	// composite masks behave as their union
	if !evalComparison(t, NewInteger(3), NewInteger(4), CmpLT|CmpGT|CmpNumBased) {
		t.Error("3 NE 4 should hold")
	}
	if evalComparison(t, NewInteger(4), NewInteger(4), CmpLT|CmpGT|CmpNumBased) {
		t.Error("4 NE 4 should not hold")
	}
	if !evalComparison(t, NewInteger(4), NewInteger(4), CmpEQ|CmpLT|CmpNumBased) {
		t.Error("4 <= 4 should hold")
	}
}

func TestComparisonPropagatesOperandFailure(t *testing.T) {
	ctx := NewEvalContext()
	defer ctx.Close()

	failing := NewVariable("$missing")
	expr := NewComparison(failing, NewLiteral(NewInteger(1)), CmpEQ|CmpNumBased)
	if _, err := Eval(expr, ctx); err == nil {
		t.Fatal("comparison with a failing operand should fail")
	}
}
