package pipe

import (
	"errors"
	"io"
	"syscall"
)

// StatusMatcher decides whether an exit status belongs to some class
// of statuses (e.g., ones that we want to treat as success).
type StatusMatcher func(status ExitStatus) bool

// IsSignal returns a `StatusMatcher` that matches processes that were
// killed by `signal`. Note that under Windows this never matches,
// because on that platform `WaitStatus.Signaled()` isn't implemented
// (it is hardcoded to return `false`).
func IsSignal(signal syscall.Signal) StatusMatcher {
	return func(status ExitStatus) bool {
		return status.Signaled() && status.Signal() == signal
	}
}

// IsSIGPIPE is a `StatusMatcher` that matches processes killed by
// SIGPIPE, which is what happens to a process whose reader (e.g., a
// pager) exits before reading all of its output.
var IsSIGPIPE = IsSignal(syscall.SIGPIPE)

// IgnoreStatus returns 0 if `status` is matched by `sm`, and `status`
// otherwise. Use like
//
//	status = pipe.IgnoreStatus(status, pipe.IsSIGPIPE)
func IgnoreStatus(status ExitStatus, sm StatusMatcher) ExitStatus {
	if sm(status) {
		return 0
	}
	return status
}

// ErrorMatcher decides whether its argument matches some class of
// errors (e.g., errors that we want to ignore). The function will
// only be invoked for non-nil errors.
type ErrorMatcher func(err error) bool

// AnyError returns an `ErrorMatcher` that returns true for an error
// that matches any of the `ems`.
func AnyError(ems ...ErrorMatcher) ErrorMatcher {
	return func(err error) bool {
		if err == nil {
			return false
		}
		for _, em := range ems {
			if em(err) {
				return true
			}
		}
		return false
	}
}

// IsError returns an `ErrorMatcher` for the specified target error,
// matched using `errors.Is()`.
func IsError(target error) ErrorMatcher {
	return func(err error) bool {
		return errors.Is(err, target)
	}
}

var (
	// IsEPIPE is an `ErrorMatcher` that matches `syscall.EPIPE` using
	// `errors.Is()`.
	IsEPIPE = IsError(syscall.EPIPE)

	// IsErrClosedPipe is an `ErrorMatcher` that matches
	// `io.ErrClosedPipe` using `errors.Is()`.
	IsErrClosedPipe = IsError(io.ErrClosedPipe)

	// IsPipeError is an `ErrorMatcher` that matches the errors that
	// typically result from writing to a reader that has stopped
	// reading.
	IsPipeError = AnyError(IsEPIPE, IsErrClosedPipe)
)
