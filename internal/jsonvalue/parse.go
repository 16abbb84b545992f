package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Parse decodes JSON text into a Value tree, preserving object key order
// and distinguishing integral numbers from doubles. Trailing garbage after
// the first value is an error.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	// only whitespace may follow the document
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

// ParseString is Parse over a string input.
func ParseString(data string) (*Value, error) {
	return Parse([]byte(data))
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBoolean(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return decodeNumber(t)
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func decodeNumber(n json.Number) (*Value, error) {
	// a number without fraction or exponent stays an int64 as long as it fits
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return NewInt64(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return NewNumber(f), nil
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		child, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.ObjectSet(key, child)
	}
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	arr := NewArray()
	for {
		if !dec.More() {
			// consume the closing bracket
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		child, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr.ArrayAppend(child)
	}
}
