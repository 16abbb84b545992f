package filterx

import (
	"bytes"
	"runtime"
	"strconv"
)

// curGoroutineID extracts the numeric id of the calling goroutine from the
// first line of its stack trace. Objects are stamped with it at creation so
// the final unref can assert that values never crossed a goroutine
// boundary, which the non-atomic reference counts do not tolerate.
func curGoroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	// first line reads "goroutine 18 [running]:"
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
