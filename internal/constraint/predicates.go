package constraint

import (
	"fmt"
	"reflect"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"inputparser/internal/kind"
)

// InList reports whether value equals one of allowable. A non-sequence
// allowable is treated as a single-element set. Text is compared after
// lower-casing both sides unless caseSensitive is set; real numbers compare
// numerically, so 2 matches 2.0.
func InList(value, allowable any, caseSensitive bool) bool {
	set, ok := kind.Elements(allowable)
	if !ok {
		set = []any{allowable}
	}
	for _, candidate := range set {
		if equal(value, candidate, caseSensitive) {
			return true
		}
	}
	return false
}

// IsReal reports whether value is not a complex number.
func IsReal(value any) bool {
	return kind.Of(value) != kind.Complex
}

// IsPositive reports whether value is a real number greater than or equal to zero.
func IsPositive(value any) bool {
	f, ok := toFloat(value)
	return ok && f >= 0
}

// InRange reports whether value is a real number within bounds. The order of
// the two bounds does not matter. With inclusive set the bounds themselves
// are accepted.
func InRange(value, bounds any, inclusive bool) bool {
	lo, hi, ok := boundsOf(bounds)
	if !ok || !IsReal(value) {
		return false
	}
	f, ok := toFloat(value)
	if !ok {
		return false
	}
	if inclusive {
		return lo <= f && f <= hi
	}
	return lo < f && f < hi
}

// AreValidElements reports whether value is a sequence whose every element
// satisfies element. Every element is checked, even after a failure.
func AreValidElements(value any, element Constraint, params Params) bool {
	elems, ok := kind.Elements(value)
	if !ok {
		return false
	}
	pass := true
	for _, e := range elems {
		pass = element.Check(e, params) && pass
	}
	return pass
}

// MatchesRegex reports whether the text form of value fully matches pattern.
// An invalid pattern never matches.
func MatchesRegex(value any, pattern string) bool {
	// compiled alone first so an unbalanced ")" cannot close the anchor group
	if _, err := regexp.Compile(pattern); err != nil {
		return false
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return false
	}
	return re.MatchString(text(value))
}

func equal(a, b any, caseSensitive bool) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if kind.Of(a) == kind.String && kind.Of(b) == kind.String {
		as, bs := text(a), text(b)
		if !caseSensitive {
			lower := cases.Lower(language.Und)
			as, bs = lower.String(as), lower.String(bs)
		}
		return as == bs
	}
	return reflect.DeepEqual(a, b)
}

// toFloat converts integer and float kinds to float64.
func toFloat(v any) (float64, bool) {
	switch kind.Of(v) {
	case kind.Int:
		rv := reflect.ValueOf(v)
		if rv.CanInt() {
			return float64(rv.Int()), true
		}
		return float64(rv.Uint()), true
	case kind.Float:
		return reflect.ValueOf(v).Float(), true
	default:
		return 0, false
	}
}

func boundsOf(b any) (lo, hi float64, ok bool) {
	elems, ok := kind.Elements(b)
	if !ok || len(elems) != 2 {
		return 0, 0, false
	}
	x, okX := toFloat(elems[0])
	y, okY := toFloat(elems[1])
	if !okX || !okY {
		return 0, 0, false
	}
	return min(x, y), max(x, y), true
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	if kind.Of(v) == kind.String {
		return reflect.ValueOf(v).String()
	}
	return fmt.Sprint(v)
}
