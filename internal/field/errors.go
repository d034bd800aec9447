package field

import "errors"

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrConstraintViolation = errors.New("constraint violation")
)

// Error is returned by Validate when a candidate is rejected and errors are
// not suppressed. Its message is the rendered diagnostic.
type Error struct {
	Diagnostic Diagnostic
}

func (e *Error) Error() string { return e.Diagnostic.String() }

// Unwrap returns the sentinel matching the failure cause.
func (e *Error) Unwrap() error {
	switch e.Diagnostic.Cause {
	case CauseTypeMismatch:
		return ErrTypeMismatch
	case CauseConstraint:
		return ErrConstraintViolation
	default:
		return nil
	}
}

// Is makes every Error match ErrInvalidInput.
func (e *Error) Is(target error) bool { return target == ErrInvalidInput }
