package constraint

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"inputparser/internal/kind"
)

// Format renders v for diagnostics. Constraints and functions render by
// name, sequences as [a, b] with quoted text elements, and maps with their
// keys sorted.
func Format(v any) string {
	return format(v, false)
}

func format(v any, nested bool) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		if nested {
			return "'" + t + "'"
		}
		return t
	case Params:
		return formatMap(t)
	case map[string]any:
		return formatMap(t)
	case fmt.Stringer:
		return t.String()
	}

	if reflect.TypeOf(v).Kind() == reflect.Func {
		return funcName(v)
	}
	if elems, ok := kind.Elements(v); ok {
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = format(e, true)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}

func formatMap(m map[string]any) string {
	p := Params(m)
	parts := make([]string, 0, len(p))
	for _, k := range p.Keys() {
		parts = append(parts, k+": "+format(p[k], true))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// funcName returns the unqualified name of a function value.
func funcName(fn any) string {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return "func"
	}
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return "func"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
