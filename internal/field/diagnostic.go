package field

import (
	"strings"

	"inputparser/internal/constraint"
	"inputparser/internal/kind"
)

// Cause identifies why a candidate was rejected.
type Cause uint8

const (
	CauseTypeMismatch Cause = iota + 1
	CauseConstraint
)

func (c Cause) String() string {
	switch c {
	case CauseTypeMismatch:
		return "type mismatch"
	case CauseConstraint:
		return "constraint violation"
	default:
		return "unknown"
	}
}

// Diagnostic describes a failed validation.
type Diagnostic struct {
	Cause Cause
	Value any

	// Set for CauseTypeMismatch.
	Actual  kind.Kind
	Allowed []kind.Kind

	// Set for CauseConstraint.
	Constraint string
	Params     constraint.Params
}

// String renders the diagnostic as indented, line-per-item text.
func (d Diagnostic) String() string {
	var sb strings.Builder
	value := constraint.Format(d.Value)

	switch d.Cause {
	case CauseTypeMismatch:
		sb.WriteString("Provided value of '" + value + "' is of type '" + d.Actual.String() + "'. \n")
		sb.WriteString("\tValue for this field must be one of the following types: \n")
		for _, k := range d.Allowed {
			sb.WriteString("\t\t- " + k.String() + " \n")
		}
	case CauseConstraint:
		sb.WriteString("Provided value of '" + value + "' did not meet the constraints enforced by: " + d.Constraint + "(). \n")
		if len(d.Params) > 0 {
			sb.WriteString("\tArguments passed to constraint function: \n")
			for _, k := range d.Params.Keys() {
				sb.WriteString("\t\t- " + k + " : " + constraint.Format(d.Params[k]) + " \n")
			}
		}
	}
	return sb.String()
}
