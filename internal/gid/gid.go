// Package gid resolves the id of the calling goroutine.
//
// Go deliberately hides goroutine ids, but the runtime prints one in the
// first line of every stack trace ("goroutine 123 [running]:"). Parsing
// that header is the established way to key strictly goroutine-local
// bookkeeping when no id can be threaded through the call path.
package gid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// Get returns the id of the calling goroutine.
func Get() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], prefix)
	if i := bytes.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	id, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil {
		panic("gid: malformed stack header: " + string(buf[:n]))
	}
	return id
}
