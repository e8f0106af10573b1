package optimizer

import (
	"errors"
	"fmt"
)

// Code is the machine-readable outcome of a run, carried alongside the
// human-readable message so hosts on the other side of a worker boundary
// can switch on it.
type Code string

const (
	CodeOK           Code = "ok"
	CodeInvalidInput Code = "invalid_input"
	CodeInProgress   Code = "in_progress"
	CodeCancelled    Code = "cancelled"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// RunError is the typed error every optimizer failure surfaces as.
type RunError struct {
	Code    Code
	Message string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RunError) Unwrap() error { return e.Err }

func runErrorf(code Code, format string, args ...any) *RunError {
	return &RunError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapRunError(code Code, msg string, err error) *RunError {
	return &RunError{Code: code, Message: msg, Err: err}
}

// ErrorCode extracts the run error code; nil maps to CodeOK and unknown
// errors to CodeInternal.
func ErrorCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var re *RunError
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeInternal
}
