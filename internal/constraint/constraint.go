package constraint

import (
	"sort"
	"strconv"
)

// Well-known parameter names read by the built-in strategies.
const (
	ParamAllowable         = "allowable"
	ParamCaseSensitive     = "case_sensitive"
	ParamAllowableRange    = "allowable_range"
	ParamInclusive         = "inclusive"
	ParamElementConstraint = "element_constraint"
	ParamConstraintArgs    = "constraint_args"
	ParamRegEx             = "reg_ex"
)

// Params are the named arguments handed to a constraint on every check.
type Params map[string]any

// Bool returns the boolean stored under key, or def when it is absent or
// not a bool.
func (p Params) Bool(key string, def bool) bool {
	if b, ok := p[key].(bool); ok {
		return b
	}
	return def
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of p. The copy of a nil Params is empty.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Bounds is a two-element range bound for InRange, in either order.
type Bounds [2]float64

func (b Bounds) String() string {
	return "(" + strconv.FormatFloat(b[0], 'g', -1, 64) + ", " + strconv.FormatFloat(b[1], 'g', -1, 64) + ")"
}

// Strategy tags the kind of check a Constraint performs.
type Strategy uint8

const (
	StrategyNone Strategy = iota
	StrategyMembership
	StrategyRealness
	StrategyPositivity
	StrategyRange
	StrategyElements
	StrategyPattern
	StrategyCustom
)

// Constraint is a named predicate over a candidate value and its Params.
// The zero Constraint accepts everything and reports IsZero.
type Constraint struct {
	strategy Strategy
	name     string
	fn       func(value any, params Params) bool
}

// Built-in strategies.
var (
	// Membership checks value against params[allowable]; params[case_sensitive]
	// defaults to false.
	Membership = Constraint{strategy: StrategyMembership, name: "in_list"}

	Realness   = Constraint{strategy: StrategyRealness, name: "is_real"}
	Positivity = Constraint{strategy: StrategyPositivity, name: "is_positive"}

	// Range checks value against params[allowable_range]; params[inclusive]
	// defaults to true.
	Range = Constraint{strategy: StrategyRange, name: "in_range"}

	// Elements applies params[element_constraint] to every element with
	// params[constraint_args]. The element constraint may be given as a
	// Constraint, a built-in name, or a func(any) bool.
	Elements = Constraint{strategy: StrategyElements, name: "are_valid_elements"}

	// Pattern fully matches the value's text against params[reg_ex].
	Pattern = Constraint{strategy: StrategyPattern, name: "matches_regex"}
)

// Custom wraps fn as a Constraint reported under name.
func Custom(name string, fn func(value any, params Params) bool) Constraint {
	if name == "" {
		name = "custom"
	}
	return Constraint{strategy: StrategyCustom, name: name, fn: fn}
}

// Func wraps a parameterless predicate as a Constraint reported under name.
func Func(name string, fn func(value any) bool) Constraint {
	return Custom(name, func(value any, _ Params) bool { return fn(value) })
}

// Lookup returns the built-in Constraint registered under name.
func Lookup(name string) (Constraint, bool) {
	for _, c := range []Constraint{Membership, Realness, Positivity, Range, Elements, Pattern} {
		if c.name == name {
			return c, true
		}
	}
	return Constraint{}, false
}

// Names returns the names of the built-in constraints.
func Names() []string {
	return []string{Membership.name, Realness.name, Positivity.name, Range.name, Elements.name, Pattern.name}
}

// Name returns the name a schema uses to reference the constraint.
func (c Constraint) Name() string { return c.name }

// Strategy returns the predicate the constraint dispatches to.
func (c Constraint) Strategy() Strategy { return c.strategy }

// IsZero reports whether c is the absent constraint, which accepts everything.
func (c Constraint) IsZero() bool { return c.strategy == StrategyNone }

// String returns the constraint name.
func (c Constraint) String() string { return c.name }

// Check runs the constraint against value.
func (c Constraint) Check(value any, params Params) bool {
	switch c.strategy {
	case StrategyNone:
		return true
	case StrategyMembership:
		return InList(value, params[ParamAllowable], params.Bool(ParamCaseSensitive, false))
	case StrategyRealness:
		return IsReal(value)
	case StrategyPositivity:
		return IsPositive(value)
	case StrategyRange:
		return InRange(value, params[ParamAllowableRange], params.Bool(ParamInclusive, true))
	case StrategyElements:
		element, ok := AsConstraint(params[ParamElementConstraint])
		if !ok {
			return false
		}
		return AreValidElements(value, element, ParamsOf(params[ParamConstraintArgs]))
	case StrategyPattern:
		pattern, ok := params[ParamRegEx].(string)
		return ok && MatchesRegex(value, pattern)
	case StrategyCustom:
		return c.fn != nil && c.fn(value, params)
	default:
		return false
	}
}

// AsConstraint converts v to a Constraint. It accepts a Constraint, the name
// of a built-in, or a predicate function.
func AsConstraint(v any) (Constraint, bool) {
	switch t := v.(type) {
	case Constraint:
		return t, !t.IsZero()
	case string:
		return Lookup(t)
	case func(any) bool:
		return Func(funcName(t), t), t != nil
	case func(any, Params) bool:
		return Custom(funcName(t), t), t != nil
	default:
		return Constraint{}, false
	}
}

// ParamsOf converts v to Params. It accepts Params and map[string]any; any
// other value yields nil.
func ParamsOf(v any) Params {
	switch t := v.(type) {
	case Params:
		return t
	case map[string]any:
		return Params(t)
	default:
		return nil
	}
}
