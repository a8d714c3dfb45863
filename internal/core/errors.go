package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced while evaluating a frame unwraps to one
// of these.
var (
	// ErrValidation marks a malformed command (wrong arity or type).
	ErrValidation = errors.New("validation error")
	// ErrReference marks an out-of-bounds or inverted cell rectangle, or an
	// unknown or forward-pointing checkpoint name.
	ErrReference = errors.New("reference error")
	// ErrState marks a sequence that is missing required state, such as a
	// first frame without a size.
	ErrState = errors.New("state error")
)

// Error carries the failing operation alongside its kind.
type Error struct {
	Kind error
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Validationf builds an ErrValidation error.
func Validationf(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Referencef builds an ErrReference error.
func Referencef(op, format string, args ...any) error {
	return &Error{Kind: ErrReference, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Statef builds an ErrState error.
func Statef(op, format string, args ...any) error {
	return &Error{Kind: ErrState, Op: op, Msg: fmt.Sprintf(format, args...)}
}
