package filterx

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-filterx/internal/logmsg"
)

func TestFormatJSONScalars(t *testing.T) {
	tests := []struct {
		name  string
		input *Object
		want  string
	}{
		{"null", NewNull(), `null`},
		{"true", NewBoolean(true), `true`},
		{"false", NewBoolean(false), `false`},
		{"integer", NewInteger(-12), `-12`},
		{"double", NewDouble(1.5), `1.5`},
		{"string", NewString("plain"), `"plain"`},
		{"string escaping", NewString("a\"b\\c\nd"), `"a\"b\\c\u000ad"`},
		{"bytes as base64", NewBytes([]byte{0xde, 0xad, 0xbe, 0xef}), `"3q2+7w=="`},
		{"protobuf as base64", NewProtobuf([]byte{1, 2}), `"AQI="`},
	}
	for _, tt := range tests {
		// The inputs were allocated on this goroutine, so their final Unref
		// happens here rather than inside the subtest's goroutine.
		t.Run(tt.name, func(t *testing.T) {
			out, err := builtinFormatJSON([]*Object{tt.input})
			require.NoError(t, err)
			defer out.Unref()
			s, _ := StringValue(out)
			require.Equal(t, tt.want, s)
		})
		tt.input.Unref()
	}
}

func TestFormatJSONInvalidUTF8(t *testing.T) {
	out, err := builtinFormatJSON([]*Object{NewString("ok\xffbad")})
	require.NoError(t, err)
	defer out.Unref()
	s, _ := StringValue(out)
	require.Equal(t, `"ok\\xffbad"`, s)
}

func TestFormatJSONContainers(t *testing.T) {
	obj, err := ParseJSON(`{"a":[1,2,{"b":"x"}],"c":null}`)
	require.NoError(t, err)
	defer obj.Unref()

	out, err := builtinFormatJSON([]*Object{obj})
	require.NoError(t, err)
	defer out.Unref()
	s, _ := StringValue(out)
	require.Equal(t, `{"a":[1,2,{"b":"x"}],"c":null}`, s)
}

func TestFormatJSONMessageValues(t *testing.T) {
	t.Run("json tag passes through", func(t *testing.T) {
		mv := NewMessageValue(`{"pre":"serialised"}`, logmsg.VTJSON)
		defer mv.Unref()
		out, err := builtinFormatJSON([]*Object{mv})
		require.NoError(t, err)
		defer out.Unref()
		s, _ := StringValue(out)
		require.Equal(t, `{"pre":"serialised"}`, s)
	})

	t.Run("other tags unmarshal first", func(t *testing.T) {
		mv := NewMessageValue("42", logmsg.VTInteger)
		defer mv.Unref()
		out, err := builtinFormatJSON([]*Object{mv})
		require.NoError(t, err)
		defer out.Unref()
		s, _ := StringValue(out)
		require.Equal(t, `42`, s)
	})
}

func TestFormatJSONDatetimeFallsBackToRepr(t *testing.T) {
	obj := NewMessageValue("1701350398.123000", logmsg.VTDatetime)
	defer obj.Unref()
	out, err := builtinFormatJSON([]*Object{obj})
	require.NoError(t, err)
	defer out.Unref()
	s, _ := StringValue(out)
	require.Equal(t, `"1701350398.123000+00:00"`, s)
}

func TestParseFormatJSONRoundtrip(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"a":1}`,
		`{"a":{"b":{"c":[1,2,3]}},"d":"x"}`,
		`[true,false,null,0.25,"s"]`,
	}
	for _, input := range inputs {
		obj, err := ParseJSON(input)
		require.NoError(t, err, input)
		require.Equal(t, input, formatted(t, obj), input)
		obj.Unref()
	}
}

func TestFormatJSONSnapshots(t *testing.T) {
	obj, err := ParseJSON(`{"service":"sshd","pid":4242,"accepted":true,` +
		`"peers":["10.0.0.1","10.0.0.2"],"detail":{"method":"publickey","attempt":1.0}}`)
	require.NoError(t, err)
	defer obj.Unref()

	snaps.MatchSnapshot(t, formatted(t, obj))

	kv, err := buildFormatKV(t, NewLiteral(obj.Ref()))
	require.NoError(t, err)
	snaps.MatchSnapshot(t, evalToString(t, kv))
}
