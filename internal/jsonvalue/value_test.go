package jsonvalue

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindNull, "Null"},
		{KindObject, "Object"},
		{KindArray, "Array"},
		{KindString, "String"},
		{KindNumber, "Number"},
		{KindInt64, "Int64"},
		{KindBoolean, "Boolean"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestValueConstructors(t *testing.T) {
	if kind := NewNull().Kind(); kind != KindNull {
		t.Fatalf("NewNull kind = %v, want %v", kind, KindNull)
	}
	if kind := NewBoolean(true).Kind(); kind != KindBoolean {
		t.Fatalf("NewBoolean kind = %v, want %v", kind, KindBoolean)
	}
	if kind := NewNumber(1.23).Kind(); kind != KindNumber {
		t.Fatalf("NewNumber kind = %v, want %v", kind, KindNumber)
	}
	if kind := NewInt64(42).Kind(); kind != KindInt64 {
		t.Fatalf("NewInt64 kind = %v, want %v", kind, KindInt64)
	}
	if kind := NewString("foo").Kind(); kind != KindString {
		t.Fatalf("NewString kind = %v, want %v", kind, KindString)
	}
	if kind := NewArray().Kind(); kind != KindArray {
		t.Fatalf("NewArray kind = %v, want %v", kind, KindArray)
	}
	if kind := NewObject().Kind(); kind != KindObject {
		t.Fatalf("NewObject kind = %v, want %v", kind, KindObject)
	}
}

func TestObjectOperations(t *testing.T) {
	obj := NewObject()
	obj.ObjectSet("foo", NewString("bar"))
	obj.ObjectSet("baz", NewInt64(7))
	obj.ObjectSet("foo", NewString("updated"))

	if got := obj.ObjectGet("foo"); got == nil || got.StringValue() != "updated" {
		t.Fatalf("ObjectGet foo = %#v, want updated string", got)
	}
	if !obj.ObjectHas("baz") {
		t.Fatal("ObjectHas baz = false")
	}
	if obj.ObjectHas("nope") {
		t.Fatal("ObjectHas nope = true")
	}

	// replacement keeps insertion order
	keys := obj.ObjectKeys()
	if len(keys) != 2 || keys[0] != "foo" || keys[1] != "baz" {
		t.Fatalf("ObjectKeys = %v, want [foo baz]", keys)
	}

	if !obj.ObjectDelete("foo") {
		t.Fatal("ObjectDelete foo = false")
	}
	if obj.ObjectDelete("foo") {
		t.Fatal("second ObjectDelete foo = true")
	}
	if got := obj.ObjectLen(); got != 1 {
		t.Fatalf("ObjectLen = %d, want 1", got)
	}
}

func TestArrayOperations(t *testing.T) {
	arr := NewArray()
	arr.ArrayAppend(NewString("a"))
	arr.ArrayAppend(NewString("b"))
	arr.ArrayAppend(NewString("c"))

	if got := arr.ArrayLen(); got != 3 {
		t.Fatalf("ArrayLen = %d, want 3", got)
	}
	if got := arr.ArrayGet(1); got == nil || got.StringValue() != "b" {
		t.Fatalf("ArrayGet(1) = %#v, want b", got)
	}
	if arr.ArrayGet(3) != nil {
		t.Fatal("ArrayGet(3) should be nil")
	}

	if !arr.ArraySet(1, NewString("B")) {
		t.Fatal("ArraySet(1) = false")
	}
	if arr.ArraySet(3, NewString("x")) {
		t.Fatal("ArraySet(3) out of range should fail")
	}

	if !arr.ArrayDelete(0) {
		t.Fatal("ArrayDelete(0) = false")
	}
	if got := arr.ArrayGet(0); got == nil || got.StringValue() != "B" {
		t.Fatalf("after delete, ArrayGet(0) = %#v, want B", got)
	}
}

func TestUserdataSlot(t *testing.T) {
	v := NewString("x")
	if v.Userdata() != nil {
		t.Fatal("fresh value should have nil userdata")
	}
	v.SetUserdata(42)
	if got := v.Userdata(); got != 42 {
		t.Fatalf("Userdata = %v, want 42", got)
	}
}

func TestDeepCopyIndependence(t *testing.T) {
	src := NewObject()
	inner := NewArray()
	inner.ArrayAppend(NewInt64(1))
	src.ObjectSet("list", inner)

	var copied int
	dst := src.DeepCopy(func(s, d *Value) { copied++ })
	if copied != 3 {
		t.Fatalf("onCopy invoked %d times, want 3", copied)
	}

	dst.ObjectGet("list").ArrayAppend(NewInt64(2))
	if src.ObjectGet("list").ArrayLen() != 1 {
		t.Fatal("mutating the copy leaked into the source")
	}
}

func TestAppendJSON(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Value
		want  string
	}{
		{"null", NewNull, `null`},
		{"true", func() *Value { return NewBoolean(true) }, `true`},
		{"int", func() *Value { return NewInt64(-3) }, `-3`},
		{"double", func() *Value { return NewNumber(0.5) }, `0.5`},
		{"string escapes", func() *Value { return NewString("a\"b\nc") }, `"a\"b\nc"`},
		{"array", func() *Value {
			a := NewArray()
			a.ArrayAppend(NewInt64(1))
			a.ArrayAppend(NewString("x"))
			return a
		}, `[1,"x"]`},
		{"object keeps order", func() *Value {
			o := NewObject()
			o.ObjectSet("z", NewInt64(1))
			o.ObjectSet("a", NewInt64(2))
			return o
		}, `{"z":1,"a":2}`},
	}
	for _, tt := range tests {
		if got := tt.build().JSONString(); got != tt.want {
			t.Errorf("%s: JSONString = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	v, err := ParseString(`{"b":1,"a":[1.5,true,null,"s"],"c":9223372036854775807}`)
	if err != nil {
		t.Fatal(err)
	}
	if keys := v.ObjectKeys(); len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Fatalf("parsed key order = %v", keys)
	}
	if v.ObjectGet("b").Kind() != KindInt64 {
		t.Fatal("integral numbers should parse as Int64")
	}
	if v.ObjectGet("a").ArrayGet(0).Kind() != KindNumber {
		t.Fatal("fractional numbers should parse as Number")
	}
	if v.ObjectGet("c").Int64Value() != 9223372036854775807 {
		t.Fatal("int64 range must round-trip")
	}

	if _, err := ParseString(`{"a":1} trailing`); err == nil {
		t.Fatal("trailing garbage should be an error")
	}
	if _, err := ParseString(`{"a":`); err == nil {
		t.Fatal("truncated document should be an error")
	}
}

func TestParseRoundtrip(t *testing.T) {
	inputs := []string{
		`{}`,
		`[]`,
		`{"a":{"b":[1,2,{"c":"d"}]},"e":null}`,
	}
	for _, input := range inputs {
		v, err := ParseString(input)
		if err != nil {
			t.Fatalf("%s: %v", input, err)
		}
		if got := v.JSONString(); got != input {
			t.Errorf("roundtrip of %s = %s", input, got)
		}
	}
}
