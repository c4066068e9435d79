package cli

import (
	"errors"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

// errReported marks failures whose details were already written to stdout,
// such as a rejected mutation and its report.
var errReported = errors.New("integrity check failed")

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error { return &exitError{code: exitSysError, err: err} }

// ExitCode maps an error returned by a command to a process exit code.
// Errors without an explicit code come from cobra itself (unknown command,
// bad flag, wrong argument count) and count as user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// classify wraps a storage layer error with the matching exit code. Errors
// that already carry a code are returned as is.
func classify(err error) error {
	var ee *exitError
	if err == nil || errors.As(err, &ee) {
		return err
	}
	switch {
	case errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, types.ErrNotFound):
		return userError(err)
	}
	return sysError(err)
}
