// Package errors gives every failure stackdraw reports a machine-readable
// code.
//
// Codes starting with INVALID_ mark a broken call contract or a broken
// document and are raised at once. Geometry that merely does not work out
// (coincident connector endpoints, a corner radius that does not fit) is
// not an error here: it is logged and the diagram still renders.
//
//	err := errors.New(errors.ErrCodeInvalidDirection, "direction %v is not a bbox point", dir)
//	if errors.Is(err, errors.ErrCodeInvalidDirection) {
//		...
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an *Error.
type Code string

const (
	ErrCodeInvalidArgument  Code = "INVALID_ARGUMENT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidAxis      Code = "INVALID_AXIS"
	ErrCodeInvalidStructure Code = "INVALID_STRUCTURE"
	ErrCodeInvalidDiagram   Code = "INVALID_DIAGRAM"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Argument reports whether c is one of the INVALID_ codes.
func (c Code) Argument() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Error pairs a code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets the standard errors.Is match any *Error carrying the same code,
// so a bare &Error{Code: c} works as a sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Code == e.Code
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode is the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsArgument reports whether err is a contract violation by the caller
// rather than a data-dependent failure.
func IsArgument(err error) bool {
	return GetCode(err).Argument()
}

// UserMessage is the message without the code prefix, or err.Error() for
// errors from elsewhere.
func UserMessage(err error) string {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
