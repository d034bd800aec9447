package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isEven(v any) bool {
	n, ok := v.(int)
	return ok && n%2 == 0
}

func TestConstraint_Check(t *testing.T) {
	t.Run("zero constraint accepts everything", func(t *testing.T) {
		var c Constraint
		assert.True(t, c.IsZero())
		assert.True(t, c.Check("anything", nil))
	})

	t.Run("membership defaults to case-insensitive", func(t *testing.T) {
		params := Params{ParamAllowable: []string{"checkings", "savings"}}
		assert.True(t, Membership.Check("SAVINGS", params))

		params[ParamCaseSensitive] = true
		assert.False(t, Membership.Check("SAVINGS", params))
	})

	t.Run("range defaults to inclusive", func(t *testing.T) {
		params := Params{ParamAllowableRange: Bounds{0, 1}}
		assert.True(t, Range.Check(1, params))

		params[ParamInclusive] = false
		assert.False(t, Range.Check(1, params))
	})

	t.Run("range without bounds fails", func(t *testing.T) {
		assert.False(t, Range.Check(0.5, nil))
	})

	t.Run("elements by constraint, name and func", func(t *testing.T) {
		values := []any{2, 4}
		assert.True(t, Elements.Check(values, Params{ParamElementConstraint: Positivity}))
		assert.True(t, Elements.Check(values, Params{ParamElementConstraint: "is_positive"}))
		assert.True(t, Elements.Check(values, Params{ParamElementConstraint: isEven}))
		assert.False(t, Elements.Check([]any{2, 3}, Params{ParamElementConstraint: isEven}))
	})

	t.Run("elements with constraint args from a decoded document", func(t *testing.T) {
		params := Params{
			ParamElementConstraint: "in_range",
			ParamConstraintArgs:    map[string]any{ParamAllowableRange: []any{0.0, 0.1}},
		}
		assert.True(t, Elements.Check([]any{0.01, 0.05}, params))
		assert.False(t, Elements.Check([]any{0.01, 0.5}, params))
	})

	t.Run("elements without an element constraint fails", func(t *testing.T) {
		assert.False(t, Elements.Check([]any{1}, nil))
		assert.False(t, Elements.Check([]any{1}, Params{ParamElementConstraint: "no_such_check"}))
	})

	t.Run("pattern", func(t *testing.T) {
		assert.True(t, Pattern.Check("abc", Params{ParamRegEx: `[a-c]+`}))
		assert.False(t, Pattern.Check("abc", nil))
	})

	t.Run("custom receives params", func(t *testing.T) {
		startsWith := Custom("starts_with", func(v any, p Params) bool {
			s, ok := v.(string)
			prefix, _ := p["prefix"].(string)
			return ok && len(s) >= len(prefix) && s[:len(prefix)] == prefix
		})
		assert.Equal(t, StrategyCustom, startsWith.Strategy())
		assert.True(t, startsWith.Check("$10", Params{"prefix": "$"}))
		assert.False(t, startsWith.Check("10", Params{"prefix": "$"}))
	})

	t.Run("custom without a name", func(t *testing.T) {
		assert.Equal(t, "custom", Custom("", nil).Name())
		assert.False(t, Custom("", nil).Check(1, nil))
	})
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		c, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
		assert.False(t, c.IsZero())
	}

	_, ok := Lookup("starts_with")
	assert.False(t, ok)
}

func TestAsConstraint(t *testing.T) {
	c, ok := AsConstraint(Range)
	require.True(t, ok)
	assert.Equal(t, StrategyRange, c.Strategy())

	c, ok = AsConstraint(isEven)
	require.True(t, ok)
	assert.Equal(t, "isEven", c.Name())

	_, ok = AsConstraint(Constraint{})
	assert.False(t, ok)
	_, ok = AsConstraint(42)
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"text", "abc", "abc"},
		{"int", 12, "12"},
		{"float", 0.2, "0.2"},
		{"bool", false, "false"},
		{"nil", nil, "<nil>"},
		{"bounds", Bounds{0, 0.1}, "(0, 0.1)"},
		{"sequence", []any{"1", 2, 3}, "['1', 2, 3]"},
		{"int sequence", []int{10, 20}, "[10, 20]"},
		{"constraint", Positivity, "is_positive"},
		{"func", isEven, "isEven"},
		{"params", Params{"b": 1, "a": "x"}, "{a: 'x', b: 1}"},
		{"nested map", map[string]any{ParamAllowableRange: Bounds{0, 1}}, "{allowable_range: (0, 1)}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.value))
		})
	}
}

func TestParams(t *testing.T) {
	p := Params{"z": 1, "a": true}
	assert.Equal(t, []string{"a", "z"}, p.Keys())
	assert.True(t, p.Bool("a", false))
	assert.True(t, p.Bool("missing", true))
	assert.False(t, p.Bool("z", false))

	clone := p.Clone()
	clone["a"] = false
	assert.True(t, p.Bool("a", false))

	var nilParams Params
	assert.NotNil(t, nilParams.Clone())
	assert.Nil(t, ParamsOf(42))
	assert.Equal(t, Params{"k": 1}, ParamsOf(map[string]any{"k": 1}))
}
