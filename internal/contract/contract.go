// Package contract reports calls that break a function's documented
// preconditions. These are programmer errors in the calling code, as
// opposed to analysis outcomes such as "name not resolvable", which are
// reported through ordinary return values.
package contract

import (
	"errors"
	"fmt"
)

var (
	// ErrType marks an argument of the wrong type or token type.
	ErrType = errors.New("wrong argument type")
	// ErrValue marks an argument with the right type but an unacceptable value.
	ErrValue = errors.New("invalid argument value")
)

// ArgumentError identifies the offending argument of a call.
type ArgumentError struct {
	Func     string
	Arg      string
	Expected string
	Actual   string
	kind     error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: argument %s: %v: expected %s, got %s", e.Func, e.Arg, e.kind, e.Expected, e.Actual)
}

func (e *ArgumentError) Unwrap() error {
	return e.kind
}

// TypeError builds an ArgumentError wrapping ErrType.
func TypeError(fn, arg, expected, actual string) error {
	return &ArgumentError{Func: fn, Arg: arg, Expected: expected, Actual: actual, kind: ErrType}
}

// ValueError builds an ArgumentError wrapping ErrValue.
func ValueError(fn, arg, expected, actual string) error {
	return &ArgumentError{Func: fn, Arg: arg, Expected: expected, Actual: actual, kind: ErrValue}
}
