package filterx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/go-filterx/internal/jsonvalue"
	"github.com/cwbudde/go-filterx/internal/logmsg"
)

// TypeDatetime is a calendar instant with microsecond resolution and a
// timezone offset. Its canonical textual form, used by repr and by
// string-based comparison, is "<epoch>.<usec>±HH:MM".
var TypeDatetime = &Type{
	name:  "datetime",
	super: TypeObject,
	truthy: func(o *Object) bool {
		t := o.impl.(time.Time)
		return t.Unix() != 0 || t.Nanosecond() != 0
	},
	marshal: func(o *Object) (string, logmsg.ValueType, bool) {
		t := o.impl.(time.Time)
		return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000), logmsg.VTDatetime, true
	},
	repr: func(o *Object) (string, bool) {
		return datetimeRepr(o.impl.(time.Time)), true
	},
	mapToJSON: func(o *Object) (*jsonvalue.Value, *Object, bool) {
		return jsonvalue.NewString(datetimeRepr(o.impl.(time.Time))), nil, true
	},
}

// NewDatetime wraps a time instant.
func NewDatetime(t time.Time) *Object {
	return NewObject(TypeDatetime, t)
}

// DatetimeValue unwraps a datetime object.
func DatetimeValue(o *Object) (time.Time, bool) {
	if !o.IsType(TypeDatetime) {
		return time.Time{}, false
	}
	return o.impl.(time.Time), true
}

func datetimeRepr(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%d.%06d%c%02d:%02d",
		t.Unix(), t.Nanosecond()/1000, sign, offset/3600, (offset%3600)/60)
}

// parseDatetime reads "<epoch>.<usec>" with an optional "±HH:MM" suffix,
// the form the record store and repr use.
func parseDatetime(raw string) (time.Time, bool) {
	offset := 0
	hasOffset := false
	if i := strings.LastIndexAny(raw, "+-"); i > 0 {
		offsetStr := raw[i:]
		if len(offsetStr) == 6 && offsetStr[3] == ':' {
			hours, err1 := strconv.Atoi(offsetStr[1:3])
			mins, err2 := strconv.Atoi(offsetStr[4:6])
			if err1 == nil && err2 == nil {
				offset = hours*3600 + mins*60
				if offsetStr[0] == '-' {
					offset = -offset
				}
				hasOffset = true
				raw = raw[:i]
			}
		}
	}

	sec := raw
	usec := int64(0)
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		sec = raw[:i]
		frac := raw[i+1:]
		// pad or trim to microseconds
		for len(frac) < 6 {
			frac += "0"
		}
		frac = frac[:6]
		parsed, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		usec = parsed
	}

	epoch, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	t := time.Unix(epoch, usec*1000)
	if hasOffset {
		t = t.In(time.FixedZone("", offset))
	} else {
		t = t.UTC()
	}
	return t, true
}
