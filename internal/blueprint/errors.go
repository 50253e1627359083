package blueprint

import "errors"

// ErrorCode categorizes input and parse failures.
type ErrorCode string

const (
	InputError ErrorCode = "InputError"
	ParseError ErrorCode = "ParseError"
)

// Error is a structured error with an optional location (file path or URL).
type Error struct {
	Code     ErrorCode
	Message  string
	Location string
	Cause    error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Cause }

// IsCode reports whether err wraps an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == code
}
