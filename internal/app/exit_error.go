package app

import "errors"

// Exit codes returned by RunWithOptions.
const (
	ExitOK       = 0
	ExitNoResult = 1
	ExitUsage    = 2
)

// ExitError carries the process exit code for err. A nil Err means the
// failure was already reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func Exit(code int) error {
	return ExitError{Code: code}
}

func ExitWithError(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

func asExitError(err error) (ExitError, bool) {
	if err == nil {
		return ExitError{}, false
	}
	var ee ExitError
	ok := errors.As(err, &ee)
	return ee, ok
}
