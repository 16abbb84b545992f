package filterx

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cwbudde/go-filterx/internal/jsonvalue"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// format_json serialises any object to RFC 8259 JSON text. JSON-backed
// containers pass their DOM literal through; other container
// implementations serialise through the generic dict/list walk.

func builtinFormatJSON(args []*Object) (*Object, error) {
	if len(args) != 1 {
		return nil, errors.New("invalid number of arguments, usage: format_json(data)")
	}
	out, err := formatJSONValue(args[0], nil)
	if err != nil {
		return nil, err
	}
	return NewString(string(out)), nil
}

func formatJSONValue(value *Object, dst []byte) ([]byte, error) {
	if raw, ok := messageJSONPassthrough(value); ok {
		return append(dst, raw...), nil
	}
	if value.IsType(TypeMessageValue) {
		concrete := value.Unmarshal()
		if concrete == nil {
			return nil, errors.New("failed to unmarshal record value")
		}
		defer concrete.Unref()
		return formatJSONValue(concrete, dst)
	}

	if literal, ok := JSONLiteral(value); ok {
		return append(dst, literal...), nil
	}

	switch {
	case value.IsType(TypeNull):
		return append(dst, "null"...), nil

	case value.IsType(TypeBoolean):
		b, _ := BooleanValue(value)
		if b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil

	case value.IsType(TypeInteger), value.IsType(TypeDouble):
		repr, _ := value.Repr()
		return append(dst, repr...), nil

	case value.IsType(TypeBytes):
		b, _ := BytesValue(value)
		return appendBase64Quoted(dst, b), nil

	case value.IsType(TypeProtobuf):
		b, _ := ProtobufValue(value)
		return appendBase64Quoted(dst, b), nil

	case value.IsType(TypeString):
		s, _ := StringValue(value)
		dst = append(dst, '"')
		dst = appendEscapedJSON(dst, s)
		return append(dst, '"'), nil

	case value.IsType(TypeDict):
		return formatJSONDict(value, dst)

	case value.IsType(TypeList):
		return formatJSONList(value, dst)
	}

	// unknown types fall back to their quoted repr
	repr, ok := value.Repr()
	if !ok {
		return nil, fmt.Errorf("cannot serialize %s to JSON", value.typ.name)
	}
	dst = append(dst, '"')
	dst = appendEscapedJSON(dst, repr)
	return append(dst, '"'), nil
}

func messageJSONPassthrough(value *Object) (string, bool) {
	tag, ok := MessageValueType(value)
	if !ok || tag != logmsg.VTJSON {
		return "", false
	}
	raw, _ := MessageValueRaw(value)
	return raw, true
}

func appendBase64Quoted(dst, value []byte) []byte {
	dst = append(dst, '"')
	dst = append(dst, base64.StdEncoding.EncodeToString(value)...)
	return append(dst, '"')
}

func formatJSONDict(value *Object, dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	first := true
	var walkErr error
	ok := DictIter(value, func(key, elem *Object) bool {
		keyStr, keyOK := StringValue(key)
		if !keyOK {
			walkErr = errors.New("dict keys must be strings")
			return false
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = jsonvalue.AppendQuoted(dst, keyStr)
		dst = append(dst, ':')
		dst, walkErr = formatJSONValue(elem, dst)
		return walkErr == nil
	})
	if !ok {
		if walkErr == nil {
			walkErr = errors.New("dict iteration failed")
		}
		return nil, walkErr
	}
	return append(dst, '}'), nil
}

func formatJSONList(value *Object, dst []byte) ([]byte, error) {
	dst = append(dst, '[')
	length, _ := value.Len()
	for i := uint64(0); i < length; i++ {
		elem := ListGetIndex(value, int64(i))
		if elem == nil {
			return nil, fmt.Errorf("failed to read list element %d", i)
		}
		if i > 0 {
			dst = append(dst, ',')
		}
		var err error
		dst, err = formatJSONValue(elem, dst)
		elem.Unref()
		if err != nil {
			return nil, err
		}
	}
	return append(dst, ']'), nil
}

// parse_json is the reverse direction: JSON text in, object out.
func builtinParseJSON(args []*Object) (*Object, error) {
	if len(args) != 1 {
		return nil, errors.New("invalid number of arguments, usage: parse_json(text)")
	}
	repr, err := jsonTextArg(args[0])
	if err != nil {
		return nil, err
	}
	obj, err := ParseJSON(repr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return obj, nil
}

func jsonTextArg(arg *Object) (string, error) {
	if s, ok := StringValue(arg); ok {
		return s, nil
	}
	if tag, ok := MessageValueType(arg); ok && (tag == logmsg.VTString || tag == logmsg.VTJSON) {
		raw, _ := MessageValueRaw(arg)
		return raw, nil
	}
	return "", fmt.Errorf("argument must be a string, got %s", arg.typ.name)
}
