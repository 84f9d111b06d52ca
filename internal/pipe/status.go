package pipe

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
)

// ExitStatus describes how a process terminated. A non-negative value
// is the process's exit code; a negative value -N means that the
// process was killed by signal N.
type ExitStatus int

// Success tells whether the process exited with code 0.
func (s ExitStatus) Success() bool {
	return s == 0
}

// Signaled tells whether the process was killed by a signal.
func (s ExitStatus) Signaled() bool {
	return s < 0
}

// Signal returns the signal that killed the process, or 0.
func (s ExitStatus) Signal() syscall.Signal {
	if s >= 0 {
		return 0
	}
	return syscall.Signal(-s)
}

// Code returns the status as a shell would report it: the exit code
// itself, or 128+N for a process killed by signal N. This is the
// value to pass to `os.Exit()`.
func (s ExitStatus) Code() int {
	if s < 0 {
		return 128 - int(s)
	}
	return int(s)
}

func (s ExitStatus) String() string {
	return FormatExitStatus(int(s))
}

// exitStatus converts the state of a finished process into an
// `ExitStatus`.
func exitStatus(ps *os.ProcessState) ExitStatus {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus(-int(ws.Signal()))
	}
	return ExitStatus(ps.ExitCode())
}

var signalNames = map[int]string{
	1:  "SIGHUP",
	2:  "SIGINT",
	9:  "SIGKILL",
	13: "SIGPIPE",
	15: "SIGTERM",
}

func signalName(n int) string {
	if name, ok := signalNames[n]; ok {
		return name
	}
	return fmt.Sprintf("signal %d", n)
}

// FormatExitStatus renders an exit status for humans. It accepts both
// conventions for signals:
//
//	FormatExitStatus(-13) → "SIGPIPE"       (as returned by wait)
//	FormatExitStatus(141) → "141 (SIGPIPE)" (shell convention, 128+N)
//	FormatExitStatus(2)   → "2"
//	FormatExitStatus(-99) → "signal 99"
func FormatExitStatus(code int) string {
	switch {
	case code < 0:
		return signalName(-code)
	case code > 128:
		return fmt.Sprintf("%d (%s)", code, signalName(code-128))
	default:
		return strconv.Itoa(code)
	}
}
