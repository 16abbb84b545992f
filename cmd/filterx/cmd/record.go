package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// loadRecord reads a flat JSON object into a log message. Scalar fields
// keep their JSON type; nested objects and arrays stay attached as raw
// JSON values.
func loadRecord(path string) (*logmsg.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("record file %s must contain a JSON object", path)
	}

	msg := logmsg.New()
	parsed.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			msg.SetValue(key.String(), value.String(), logmsg.VTString)
		case gjson.Number:
			raw := value.Raw
			if strings.ContainsAny(raw, ".eE") {
				msg.SetValue(key.String(), raw, logmsg.VTDouble)
			} else {
				msg.SetValue(key.String(), raw, logmsg.VTInteger)
			}
		case gjson.True, gjson.False:
			msg.SetValue(key.String(), value.Raw, logmsg.VTBoolean)
		case gjson.Null:
			msg.SetValue(key.String(), "", logmsg.VTNull)
		default:
			msg.SetValue(key.String(), value.Raw, logmsg.VTJSON)
		}
		return true
	})
	msg.ClearDirty()
	return msg, nil
}

// renderRecord serialises the message back to a JSON object, field by
// field, preserving the record-side types.
func renderRecord(msg *logmsg.Message) (string, error) {
	out := "{}"
	var err error
	for _, name := range msg.Names() {
		raw, typ, _ := msg.GetValue(name)
		switch typ {
		case logmsg.VTJSON, logmsg.VTInteger, logmsg.VTDouble, logmsg.VTBoolean:
			out, err = sjson.SetRaw(out, name, raw)
		case logmsg.VTNull:
			out, err = sjson.SetRaw(out, name, "null")
		default:
			out, err = sjson.Set(out, name, raw)
		}
		if err != nil {
			return "", err
		}
	}
	return out, nil
}
