package validator

import (
	"errors"
	"fmt"

	"inputparser/internal/constraint"
)

// FormatError formats a ValidationError into a human-readable error message.
func FormatError(err ValidationError) string {
	if errors.Is(err.Cause, ErrRequired) {
		// Format: "{key}: required but not set in {origin}, using default value of {default}"
		return fmt.Sprintf("%s: required but not set in %s, using default value of %s",
			err.Key, err.Origin, constraint.Format(err.Default))
	}

	// Format: "User value provided for {key} in {origin} is invalid: \n{diagnostic}\nUsing default value of {default}"
	return fmt.Sprintf("User value provided for %s in %s is invalid: \n%s\nUsing default value of %s",
		err.Key, err.Origin, err.Message, constraint.Format(err.Default))
}

// FormatErrors formats all validation errors into a slice of human-readable messages.
func FormatErrors(result ValidationResult) []string {
	messages := make([]string, len(result.Errors))
	for i, err := range result.Errors {
		messages[i] = FormatError(err)
	}
	return messages
}
