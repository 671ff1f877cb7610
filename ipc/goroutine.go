package ipc

import (
	"runtime"
	"strconv"
	"strings"
)

// goroutineID extracts the numeric id from the running goroutine's own
// stack trace header ("goroutine 123 [running]:"), the only way the
// standard library exposes it. Used solely to recognize the single,
// long-lived uiQueue worker goroutine so Call can refuse to block it.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := string(buf[:n])
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	id, _ := strconv.ParseUint(fields[1], 10, 64)
	return id
}
