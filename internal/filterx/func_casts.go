package filterx

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The type cast builtins each take exactly one argument. Casts that cannot
// be performed fail; they never degrade to null.

func castArg(args []*Object, target string) (*Object, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("invalid number of arguments, usage: %s(value)", target)
	}
	// lazy record values are materialised before conversion
	concrete := args[0].Unmarshal()
	if concrete == nil {
		return nil, fmt.Errorf("failed to unmarshal record value")
	}
	return concrete, nil
}

func castError(from *Object, to string) error {
	return fmt.Errorf("invalid typecast from %s to %s", from.typ.name, to)
}

func castString(args []*Object) (*Object, error) {
	obj, err := castArg(args, "string")
	if err != nil {
		return nil, err
	}
	defer obj.Unref()

	if obj.IsType(TypeString) {
		return obj.Ref(), nil
	}
	repr, ok := obj.Repr()
	if !ok {
		return nil, castError(obj, "string")
	}
	return NewString(repr), nil
}

func castBytes(args []*Object) (*Object, error) {
	obj, err := castArg(args, "bytes")
	if err != nil {
		return nil, err
	}
	defer obj.Unref()

	switch {
	case obj.IsType(TypeBytes):
		return obj.Ref(), nil
	case obj.IsType(TypeString):
		s, _ := StringValue(obj)
		return NewBytes([]byte(s)), nil
	case obj.IsType(TypeProtobuf):
		b, _ := ProtobufValue(obj)
		return NewBytes(b), nil
	}
	return nil, castError(obj, "bytes")
}

func castProtobuf(args []*Object) (*Object, error) {
	obj, err := castArg(args, "protobuf")
	if err != nil {
		return nil, err
	}
	defer obj.Unref()

	switch {
	case obj.IsType(TypeProtobuf):
		return obj.Ref(), nil
	case obj.IsType(TypeBytes):
		b, _ := BytesValue(obj)
		return NewProtobuf(b), nil
	}
	return nil, castError(obj, "protobuf")
}

func castInteger(args []*Object) (*Object, error) {
	obj, err := castArg(args, "integer")
	if err != nil {
		return nil, err
	}
	defer obj.Unref()

	switch {
	case obj.IsType(TypeInteger):
		return obj.Ref(), nil
	case obj.IsType(TypeDouble):
		f, _ := DoubleValue(obj)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.New("cannot cast a non-finite double to integer")
		}
		return NewInteger(int64(math.Round(f))), nil
	case obj.IsType(TypeString):
		s, _ := StringValue(obj)
		i, err := parseIntegerText(s)
		if err != nil {
			return nil, err
		}
		return NewInteger(i), nil
	}
	return nil, castError(obj, "integer")
}

// parseIntegerText accepts base-10 and 0x-prefixed integer forms with an
// optional sign and leading zeros. Anything else, a decimal point
// included, is rejected.
func parseIntegerText(s string) (int64, error) {
	text := s
	negative := false
	if len(text) > 0 && (text[0] == '+' || text[0] == '-') {
		negative = text[0] == '-'
		text = text[1:]
	}

	var value uint64
	var err error
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		value, err = strconv.ParseUint(text[2:], 16, 64)
	} else if text == "" || strings.IndexFunc(text, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		err = errors.New("not a number")
	} else {
		value, err = strconv.ParseUint(text, 10, 64)
	}
	if err != nil || value > math.MaxInt64 {
		return 0, fmt.Errorf("%q is not a valid integer", s)
	}
	if negative {
		return -int64(value), nil
	}
	return int64(value), nil
}

var jsonNumberRe = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func castDouble(args []*Object) (*Object, error) {
	obj, err := castArg(args, "double")
	if err != nil {
		return nil, err
	}
	defer obj.Unref()

	switch {
	case obj.IsType(TypeDouble):
		return obj.Ref(), nil
	case obj.IsType(TypeInteger):
		i, _ := IntegerValue(obj)
		return NewDouble(float64(i)), nil
	case obj.IsType(TypeString):
		s, _ := StringValue(obj)
		if !jsonNumberRe.MatchString(s) {
			return nil, fmt.Errorf("%q is not a valid double", s)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid double", s)
		}
		return NewDouble(f), nil
	}
	return nil, castError(obj, "double")
}

func castBoolean(args []*Object) (*Object, error) {
	obj, err := castArg(args, "boolean")
	if err != nil {
		return nil, err
	}
	defer obj.Unref()

	if obj.IsType(TypeBoolean) {
		return obj.Ref(), nil
	}
	if obj.IsType(TypeNull) {
		return NewBoolean(false), nil
	}
	return NewBoolean(obj.Truthy()), nil
}
