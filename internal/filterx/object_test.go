package filterx

import "testing"

func TestMain(m *testing.M) {
	InitGlobals()
	m.Run()
}

func TestRefUnrefBalance(t *testing.T) {
	o := NewString("hello")
	defer o.Unref()

	before := o.RefCount()
	o.Ref()
	if got := o.RefCount(); got != before+1 {
		t.Fatalf("ref count after Ref = %d, want %d", got, before+1)
	}
	o.Unref()
	if got := o.RefCount(); got != before {
		t.Fatalf("ref count after Unref = %d, want %d", got, before)
	}
}

func TestFreezeMakesRefcountingNoop(t *testing.T) {
	o := NewString("frozen")
	if !o.Freeze() {
		t.Fatal("Freeze returned false on a normal object")
	}
	if o.Freeze() {
		t.Fatal("second Freeze should report false")
	}
	if !o.IsFrozen() {
		t.Fatal("IsFrozen = false after Freeze")
	}

	before := o.RefCount()
	o.Ref()
	o.Unref()
	o.Unref()
	if got := o.RefCount(); got != before {
		t.Fatalf("frozen ref count changed: %d != %d", got, before)
	}
	o.UnfreezeAndFree()
}

func TestIsTypeWalksSuperChain(t *testing.T) {
	dict := NewJSONObjectEmpty()
	defer dict.Unref()

	tests := []struct {
		name string
		typ  *Type
		want bool
	}{
		{"concrete type", TypeJSONObject, true},
		{"dict super type", TypeDict, true},
		{"object root", TypeObject, true},
		{"unrelated type", TypeList, false},
		{"unrelated primitive", TypeString, false},
	}
	for _, tt := range tests {
		if got := dict.IsType(tt.typ); got != tt.want {
			t.Errorf("%s: IsType(%s) = %v, want %v", tt.name, tt.typ.Name(), got, tt.want)
		}
	}
}

func TestEveryObjectIsTypeObject(t *testing.T) {
	objects := []*Object{
		NewNull(),
		NewBoolean(true),
		NewInteger(1),
		NewDouble(1.5),
		NewString("s"),
		NewBytes([]byte{1}),
		NewJSONObjectEmpty(),
		NewJSONArrayEmpty(),
	}
	for _, o := range objects {
		if !o.IsType(TypeObject) {
			t.Errorf("%s: IsType(object) = false", o.Type().Name())
		}
		o.Unref()
	}
}

func TestCloneSemantics(t *testing.T) {
	t.Run("readonly object clone is a shared ref", func(t *testing.T) {
		s := NewString("immutable")
		defer s.Unref()

		clone := s.Clone()
		defer clone.Unref()
		if clone != s {
			t.Fatal("clone of a readonly object should be the same pointer")
		}
	})

	t.Run("mutable object clone is independent and writable", func(t *testing.T) {
		dict := NewJSONObjectEmpty()
		defer dict.Unref()
		value := NewString("one")
		dict.SetattrString("a", value)
		value.Unref()

		clone := dict.Clone()
		defer clone.Unref()
		if clone == dict {
			t.Fatal("clone of a mutable object should be a new object")
		}
		if clone.IsReadonly() {
			t.Fatal("clone of a mutable object must be writable")
		}

		other := NewString("two")
		clone.SetattrString("a", other)
		other.Unref()

		orig := dict.GetattrString("a")
		defer orig.Unref()
		repr, _ := orig.Repr()
		if repr != "one" {
			t.Fatalf("mutating the clone leaked into the original: %q", repr)
		}
	})
}

func TestReadonlyRejectsMutations(t *testing.T) {
	dict := NewJSONObjectEmpty()
	defer dict.Unref()
	dict.MakeReadonly()

	value := NewString("x")
	defer value.Unref()
	if dict.SetattrString("a", value) {
		t.Fatal("setattr succeeded on a readonly dict")
	}
	key := NewString("a")
	defer key.Unref()
	if dict.UnsetKey(key) {
		t.Fatal("unset_key succeeded on a readonly dict")
	}
}

func TestReadonlyPropagatesToChildren(t *testing.T) {
	obj, err := ParseJSON(`{"inner":{"leaf":1}}`)
	if err != nil {
		t.Fatal(err)
	}
	defer obj.Unref()
	obj.MakeReadonly()

	inner := obj.GetattrString("inner")
	defer inner.Unref()
	if !inner.IsReadonly() {
		t.Fatal("child read out of a readonly container must be readonly")
	}
}

func TestCrossGoroutineUnrefPanics(t *testing.T) {
	ch := make(chan *Object)
	go func() {
		o := NewString("migrant")
		ch <- o
	}()
	o := <-ch

	defer func() {
		if recover() == nil {
			t.Fatal("final unref on a foreign goroutine should panic")
		}
	}()
	o.Unref()
}

func TestTypeRegistryLookup(t *testing.T) {
	tests := []struct {
		name string
		want *Type
	}{
		{"object", TypeObject},
		{"null", TypeNull},
		{"boolean", TypeBoolean},
		{"integer", TypeInteger},
		{"double", TypeDouble},
		{"string", TypeString},
		{"bytes", TypeBytes},
		{"protobuf", TypeProtobuf},
		{"dict", TypeDict},
		{"list", TypeList},
		{"json_object", TypeJSONObject},
		{"json_array", TypeJSONArray},
		{"datetime", TypeDatetime},
		{"message_value", TypeMessageValue},
	}
	for _, tt := range tests {
		if got := LookupType(tt.name); got != tt.want {
			t.Errorf("LookupType(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if LookupType("no_such_type") != nil {
		t.Error("LookupType of an unknown name should be nil")
	}
}
