package validator

import (
	"errors"

	"go.uber.org/zap"

	"inputparser/internal/field"
	"inputparser/internal/resolver"
	"inputparser/internal/schema"
)

// ErrRequired marks a required key that no source set.
var ErrRequired = errors.New("required but not set")

// ValidationError represents a single rejected key
type ValidationError struct {
	Key     string // The config key path (e.g., "interest_rate")
	Origin  string // Where the value came from: document name or env var
	Message string // Rendered diagnostic
	Value   any    // The rejected candidate (nil for missing keys)
	Default any    // The value used instead
	Cause   error  // ErrRequired, field.ErrTypeMismatch or field.ErrConstraintViolation
}

// ValidationResult contains all validation outcomes
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
	Values map[string]any // effective value of every template key
}

// Validator runs resolved candidates through their template fields.
type Validator struct {
	logger       *zap.Logger
	documentName string
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger rejected keys are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithDocumentName sets the name used as the origin of document values.
func WithDocumentName(name string) Option {
	return func(v *Validator) {
		v.documentName = name
	}
}

// New returns a Validator. Without WithLogger nothing is logged.
func New(opts ...Option) *Validator {
	v := &Validator{
		logger:       zap.NewNop(),
		documentName: "document",
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks all resolved values against the template.
// It collects all errors rather than stopping at the first one, and falls
// back to the default of every rejected or missing key.
func (v *Validator) Validate(tpl schema.Template, resolved []resolver.ResolvedValue) ValidationResult {
	var errs []ValidationError
	values := make(map[string]any, len(tpl))

	for _, rv := range resolved {
		entry, exists := tpl[rv.Key]
		if !exists {
			// Skip resolved values that don't have a template entry
			continue
		}
		f := entry.Field

		if !rv.Present {
			values[rv.Key] = f.Default()
			if entry.Required {
				verr := ValidationError{
					Key:     rv.Key,
					Origin:  v.documentName,
					Message: ErrRequired.Error(),
					Default: f.Default(),
					Cause:   ErrRequired,
				}
				errs = append(errs, verr)
				v.logger.Warn("required key not set, using default",
					zap.String("key", rv.Key),
					zap.String("env_var", rv.EnvVar),
					zap.Any("default", f.Default()),
				)
			}
			continue
		}

		_, err := f.Validate(rv.Value)
		values[rv.Key] = f.Value()
		if err == nil {
			continue
		}

		verr := ValidationError{
			Key:     rv.Key,
			Origin:  v.origin(rv),
			Message: err.Error(),
			Value:   rv.Value,
			Default: f.Default(),
		}
		var ferr *field.Error
		if errors.As(err, &ferr) {
			verr.Cause = ferr.Unwrap()
		}
		errs = append(errs, verr)

		v.logger.Warn("invalid input, using default",
			zap.String("key", rv.Key),
			zap.String("origin", verr.Origin),
			zap.Any("value", rv.Value),
			zap.Any("default", f.Default()),
			zap.Error(verr.Cause),
		)
	}

	for key, entry := range tpl {
		if _, ok := values[key]; !ok {
			values[key] = entry.Field.Value()
		}
	}

	v.logger.Debug("validated inputs",
		zap.Int("keys", len(tpl)),
		zap.Int("invalid", len(errs)),
	)

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
		Values: values,
	}
}

func (v *Validator) origin(rv resolver.ResolvedValue) string {
	if rv.Source == resolver.SourceEnv {
		return rv.EnvVar
	}
	return v.documentName
}
