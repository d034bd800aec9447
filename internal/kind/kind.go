package kind

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind is the value category a configuration value belongs to.
// Fields declare the kinds they accept; candidates are classified with Of.
type Kind uint8

const (
	Invalid Kind = iota
	Bool
	Int
	Float
	Complex
	String
	Sequence
)

var names = map[Kind]string{
	Invalid:  "invalid",
	Bool:     "bool",
	Int:      "int",
	Float:    "float",
	Complex:  "complex",
	String:   "string",
	Sequence: "sequence",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Parse returns the Kind with the given name (case-insensitive).
func Parse(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, s := range names {
		if k != Invalid && s == n {
			return k, nil
		}
	}
	return Invalid, fmt.Errorf("unknown kind '%s'", name)
}

// Of classifies v. Booleans are not integers, and strings are not sequences.
func Of(v any) Kind {
	switch v.(type) {
	case nil:
		return Invalid
	case bool:
		return Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr:
		return Int
	case float32, float64:
		return Float
	case complex64, complex128:
		return Complex
	case string:
		return String
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return Sequence
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Int
	case reflect.Float32, reflect.Float64:
		return Float
	case reflect.Complex64, reflect.Complex128:
		return Complex
	case reflect.String:
		return String
	default:
		return Invalid
	}
}

// Contains reports whether k is one of kinds.
func Contains(kinds []Kind, k Kind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}

// Elements returns the elements of a Sequence value. ok is false for any
// other kind.
func Elements(v any) (elems []any, ok bool) {
	if Of(v) != Sequence {
		return nil, false
	}
	if s, isAny := v.([]any); isAny {
		return s, true
	}
	rv := reflect.ValueOf(v)
	elems = make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}
