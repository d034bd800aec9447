// Package field implements the validated configuration field: a default
// value paired with the kinds it accepts and an optional constraint.
//
// A Field is not safe for concurrent use. Validate mutates the field's status,
// so callers validating the same key from several goroutines must serialize
// those calls or give each goroutine its own Field. Distinct fields share no
// state.
package field

import (
	"errors"
	"fmt"

	"inputparser/internal/constraint"
	"inputparser/internal/kind"
)

// Field validates candidate values for one configuration key and falls back
// to its default when a candidate is rejected.
type Field struct {
	def        any
	allowed    []kind.Kind
	constraint constraint.Constraint
	params     constraint.Params
	instanceOf constraint.Constraint

	input      any
	value      any
	valid      bool
	validated  bool
	diagnostic *Diagnostic
}

// Option configures a Field.
type Option func(*Field)

// WithConstraint sets the constraint checked after the kind check, and the
// params passed to it on every call.
func WithConstraint(c constraint.Constraint, params constraint.Params) Option {
	return func(f *Field) {
		f.constraint = c
		f.params = params.Clone()
	}
}

// New returns a Field that falls back to def and accepts values of the
// allowed kinds. Sequences are accepted when every element is of an allowed
// kind.
func New(def any, allowed []kind.Kind, opts ...Option) (*Field, error) {
	if len(allowed) == 0 {
		return nil, errors.New("at least one allowed kind is required")
	}
	for _, k := range allowed {
		if k == kind.Invalid {
			return nil, fmt.Errorf("kind '%s' cannot be allowed", k)
		}
	}

	f := &Field{
		def:     def,
		allowed: append([]kind.Kind(nil), allowed...),
		value:   def,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.constraint.IsZero() && len(f.params) > 0 {
		return nil, errors.New("constraint params given without a constraint")
	}

	f.instanceOf = constraint.Func("isinstance", func(v any) bool {
		return kind.Contains(f.allowed, kind.Of(v))
	})
	return f, nil
}

// MustNew is like New but panics on error.
func MustNew(def any, allowed []kind.Kind, opts ...Option) *Field {
	f, err := New(def, allowed, opts...)
	if err != nil {
		panic(fmt.Sprintf("field: %v", err))
	}
	return f
}

// ValidateOption configures a single Validate call.
type ValidateOption func(*validateOptions)

type validateOptions struct {
	suppress bool
}

// SuppressError makes Validate report a rejected candidate only through its
// return value and the field's status, never as an error.
func SuppressError() ValidateOption {
	return func(o *validateOptions) { o.suppress = true }
}

// Validate checks candidate's kind, then the constraint if one is set, and
// records the outcome. A rejected candidate leaves the default as the
// field's value and, unless SuppressError is given, returns an *Error.
func (f *Field) Validate(candidate any, opts ...ValidateOption) (bool, error) {
	var o validateOptions
	for _, opt := range opts {
		opt(&o)
	}

	f.input = candidate
	f.value = candidate
	f.valid = true
	f.validated = true
	f.diagnostic = nil

	if !f.kindMatches(candidate) {
		f.reject(Diagnostic{
			Cause:   CauseTypeMismatch,
			Value:   candidate,
			Actual:  kind.Of(candidate),
			Allowed: f.Allowed(),
		})
	} else if !f.constraint.IsZero() && !f.constraint.Check(candidate, f.params) {
		f.reject(Diagnostic{
			Cause:      CauseConstraint,
			Value:      candidate,
			Constraint: f.constraint.Name(),
			Params:     f.params.Clone(),
		})
	}

	if !f.valid && !o.suppress {
		return false, &Error{Diagnostic: *f.diagnostic}
	}
	return f.valid, nil
}

func (f *Field) kindMatches(v any) bool {
	if kind.Of(v) == kind.Sequence {
		return constraint.AreValidElements(v, f.instanceOf, nil)
	}
	return kind.Contains(f.allowed, kind.Of(v))
}

func (f *Field) reject(d Diagnostic) {
	f.valid = false
	f.value = f.def
	f.diagnostic = &d
}

// Value returns the last accepted candidate, or the default if the last
// candidate was rejected or nothing has been validated yet.
func (f *Field) Value() any { return f.value }

// Default returns the value the field falls back to when input is rejected.
func (f *Field) Default() any { return f.def }

// Valid reports the outcome of the last Validate call. It is false before
// the first call; see Validated.
func (f *Field) Valid() bool { return f.valid }

// Validated reports whether Validate has been called.
func (f *Field) Validated() bool { return f.validated }

// Input returns the raw candidate passed to the last Validate call.
func (f *Field) Input() any { return f.input }

// LastError returns the rendered diagnostic of the last call, or "" if it
// passed or no call was made.
func (f *Field) LastError() string {
	if f.diagnostic == nil {
		return ""
	}
	return f.diagnostic.String()
}

// LastDiagnostic returns the structured diagnostic behind LastError.
func (f *Field) LastDiagnostic() (Diagnostic, bool) {
	if f.diagnostic == nil {
		return Diagnostic{}, false
	}
	return *f.diagnostic, true
}

// Allowed returns a copy of the accepted kinds.
func (f *Field) Allowed() []kind.Kind { return append([]kind.Kind(nil), f.allowed...) }

// Constraint returns the configured constraint and a copy of its params.
func (f *Field) Constraint() (constraint.Constraint, constraint.Params) {
	return f.constraint, f.params.Clone()
}
