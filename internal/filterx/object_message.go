package filterx

import (
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/cwbudde/go-filterx/internal/jsonvalue"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// A message-value is a view over a raw value taken from a log record,
// tagged with the record-side semantic type. The concrete typed object is
// materialised lazily by Unmarshal; until then the raw buffer travels
// untouched, which keeps pass-through assignments cheap.

type messageValue struct {
	raw string
	tag logmsg.ValueType
}

// TypeMessageValue is the lazy record-value type.
var TypeMessageValue = &Type{
	name:  "message_value",
	super: TypeObject,
	unmarshal: func(o *Object) *Object {
		return unmarshalMessageValue(o)
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		mv := o.impl.(messageValue)
		return mv.raw, mv.tag, true
	},
	truthy: func(o *Object) bool {
		concrete := unmarshalMessageValue(o)
		if concrete == nil {
			return false
		}
		defer concrete.Unref()
		return concrete.Truthy()
	},
	repr: func(o *Object) (string, bool) {
		mv := o.impl.(messageValue)
		switch mv.tag {
		case logmsg.VTString, logmsg.VTJSON:
			return mv.raw, true
		}
		concrete := unmarshalMessageValue(o)
		if concrete == nil {
			return "", false
		}
		defer concrete.Unref()
		return concrete.Repr()
	},
	length: func(o *Object) (uint64, bool) {
		concrete := unmarshalMessageValue(o)
		if concrete == nil {
			return 0, false
		}
		defer concrete.Unref()
		return concrete.Len()
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		concrete := unmarshalMessageValue(o)
		if concrete == nil {
			return nil, nil, false
		}
		defer concrete.Unref()
		return concrete.MapToJSON()
	},
}

// NewMessageValue wraps a raw record value together with its type tag.
func NewMessageValue(raw string, tag logmsg.ValueType) *Object {
	return NewObject(TypeMessageValue, messageValue{raw: raw, tag: tag})
}

// MessageValueType returns the semantic tag of a message-value object.
func MessageValueType(o *Object) (logmsg.ValueType, bool) {
	if !o.IsType(TypeMessageValue) {
		return logmsg.VTNull, false
	}
	return o.impl.(messageValue).tag, true
}

// MessageValueRaw returns the raw buffer of a message-value object.
func MessageValueRaw(o *Object) (string, bool) {
	if !o.IsType(TypeMessageValue) {
		return "", false
	}
	return o.impl.(messageValue).raw, true
}

func unmarshalMessageValue(o *Object) *Object {
	mv := o.impl.(messageValue)
	switch mv.tag {
	case logmsg.VTString:
		return NewString(mv.raw)
	case logmsg.VTBytes:
		return NewBytes([]byte(mv.raw))
	case logmsg.VTProtobuf:
		return NewProtobuf([]byte(mv.raw))
	case logmsg.VTNull:
		return NewNull()
	case logmsg.VTBoolean:
		switch mv.raw {
		case "true", "True", "1":
			return NewBoolean(true)
		case "false", "False", "0", "":
			return NewBoolean(false)
		}
		log.WithField("value", mv.raw).Error("invalid boolean record value")
		return nil
	case logmsg.VTInteger:
		i, err := strconv.ParseInt(mv.raw, 10, 64)
		if err != nil {
			log.WithField("value", mv.raw).Error("invalid integer record value")
			return nil
		}
		return NewInteger(i)
	case logmsg.VTDouble:
		f, err := strconv.ParseFloat(mv.raw, 64)
		if err != nil {
			log.WithField("value", mv.raw).Error("invalid double record value")
			return nil
		}
		return NewDouble(f)
	case logmsg.VTDatetime:
		t, ok := parseDatetime(mv.raw)
		if !ok {
			log.WithField("value", mv.raw).Error("invalid datetime record value")
			return nil
		}
		return NewDatetime(t)
	case logmsg.VTJSON:
		if !gjson.Valid(mv.raw) {
			log.Error("invalid JSON record value")
			return nil
		}
		dom, err := jsonvalue.ParseString(mv.raw)
		if err != nil {
			log.WithError(err).Error("invalid JSON record value")
			return nil
		}
		return newJSONFromDOM(dom)
	case logmsg.VTList:
		arr := jsonvalue.NewArray()
		for _, el := range logmsg.DecodeList(mv.raw) {
			arr.ArrayAppend(jsonvalue.NewString(el))
		}
		return NewJSONArrayFromDOM(arr)
	}
	log.WithField("tag", mv.tag.String()).Error("unsupported record value type")
	return nil
}
