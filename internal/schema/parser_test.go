package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inputparser/internal/constraint"
	"inputparser/internal/field"
	"inputparser/internal/kind"
)

const accountSchema = `fields:
  account:
    types: [string]
    default: Chase
  account_type:
    types: [string]
    default: checkings
    constraint: in_list
    params:
      allowable: [checkings, savings]
      case_sensitive: false
  previous_interest_rates:
    types: [int, float]
    default: []
    constraint: are_valid_elements
    params:
      element_constraint: in_range
      constraint_args:
        allowable_range: [0.0, 0.1]
  interest_rate:
    types: [float]
    default: 0.0
    required: true
    constraint: in_range
    params:
      allowable_range: [0.0, 0.1]
      inclusive: true
  account_number:
    types: [string]
    constraint: matches_regex
    params:
      reg_ex: '\d{9}'
`

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema([]byte(accountSchema))
	require.NoError(t, err)
	require.Len(t, s.Fields, 5)

	rate := s.Fields["interest_rate"]
	assert.Equal(t, "interest_rate", rate.Key)
	assert.Equal(t, []kind.Kind{kind.Float}, rate.Types)
	assert.Equal(t, 0.0, rate.Default)
	assert.True(t, rate.Required)
	assert.Equal(t, "in_range", rate.Constraint)
	assert.Equal(t, []any{0.0, 0.1}, rate.Params["allowable_range"])

	number := s.Fields["account_number"]
	assert.Nil(t, number.Default)
	assert.False(t, number.Required)
}

func TestSchema_Template(t *testing.T) {
	s, err := ParseSchema([]byte(accountSchema))
	require.NoError(t, err)

	tpl, err := s.Template()
	require.NoError(t, err)
	assert.Equal(t, []string{"account", "account_number", "account_type", "interest_rate", "previous_interest_rates"}, tpl.Keys())
	assert.True(t, tpl["interest_rate"].Required)

	tests := []struct {
		key   string
		value any
		want  bool
	}{
		{"account", "Bank of Nowhere", true},
		{"account", 7, false},
		{"account_type", "SAVINGS", true},
		{"account_type", "brokerage", false},
		{"previous_interest_rates", []any{0.01, 0.05}, true},
		{"previous_interest_rates", []any{0.01, 0.5}, false},
		{"previous_interest_rates", []any{0.01, "0.05"}, false},
		{"interest_rate", 0.05, true},
		{"interest_rate", 0.2, false},
		{"interest_rate", 0, false},
		{"account_number", "123456789", true},
		{"account_number", "12345", false},
	}

	for _, tt := range tests {
		ok, err := tpl[tt.key].Field.Validate(tt.value, field.SuppressError())
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "%s = %#v", tt.key, tt.value)
	}
}

func TestSchema_TemplateIsFresh(t *testing.T) {
	s, err := ParseSchema([]byte(accountSchema))
	require.NoError(t, err)

	first, err := s.Template()
	require.NoError(t, err)
	second, err := s.Template()
	require.NoError(t, err)

	_, _ = first["interest_rate"].Field.Validate(0.05)
	assert.True(t, first["interest_rate"].Field.Validated())
	assert.False(t, second["interest_rate"].Field.Validated())
}

func TestParseSchema_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing types",
			content: "fields:\n  port:\n    default: 80\n",
			wantErr: "field 'port': missing required field 'types'",
		},
		{
			name:    "unknown kind",
			content: "fields:\n  port:\n    types: [decimal]\n",
			wantErr: "field 'port': unknown kind 'decimal'",
		},
		{
			name:    "unknown constraint",
			content: "fields:\n  port:\n    types: [int]\n    constraint: is_prime\n",
			wantErr: "unknown constraint 'is_prime' for field 'port'",
		},
		{
			name:    "params without constraint",
			content: "fields:\n  port:\n    types: [int]\n    params:\n      inclusive: true\n",
			wantErr: "field 'port': params given without a constraint",
		},
		{
			name:    "element constraint missing",
			content: "fields:\n  ports:\n    types: [int]\n    constraint: are_valid_elements\n",
			wantErr: "field 'ports': 'are_valid_elements' requires a known 'element_constraint'",
		},
		{
			name:    "default of the wrong kind",
			content: "fields:\n  port:\n    types: [int]\n    default: eighty\n",
			wantErr: "field 'port': default 'eighty' is of type 'string', not one of the declared types",
		},
		{
			name:    "invalid key",
			content: "fields:\n  \"bad key\":\n    types: [int]\n",
			wantErr: "field key 'bad key' contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tt.content))
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(accountSchema), 0644))

	s, err := LoadSchema(dir)
	require.NoError(t, err)
	assert.Len(t, s.Fields, 5)

	_, err = LoadSchemaFromPath(filepath.Join(dir, "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}

// Property: Schema Round-Trip
// For any valid schema structure, serializing to YAML and parsing back
// produces an equivalent schema.
func TestSchemaRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genKey := gen.RegexMatch(`[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*`)

	genDecl := gopter.CombineGens(
		genKey,
		gen.Bool(),
		gen.IntRange(-1000, 1000),
		gen.SliceOfN(3, gen.Identifier()),
		gen.Bool(),
	).Map(func(vals []interface{}) FieldDecl {
		decl := FieldDecl{
			Key:      vals[0].(string),
			Required: vals[1].(bool),
		}
		if vals[4].(bool) {
			allowed := make([]any, 0, 3)
			for _, s := range vals[3].([]string) {
				allowed = append(allowed, s)
			}
			decl.Types = []kind.Kind{kind.String}
			decl.Constraint = constraint.Membership.Name()
			decl.Params = map[string]any{constraint.ParamAllowable: allowed}
			if len(allowed) > 0 {
				decl.Default = allowed[0]
			}
		} else {
			decl.Types = []kind.Kind{kind.Int, kind.Float}
			decl.Default = vals[2].(int)
			decl.Constraint = constraint.Positivity.Name()
		}
		return decl
	})

	genSchema := gen.SliceOfN(3, genDecl).
		SuchThat(func(decls []FieldDecl) bool {
			seen := make(map[string]bool)
			for _, d := range decls {
				if seen[d.Key] || d.Key == "" {
					return false
				}
				seen[d.Key] = true
			}
			return len(decls) > 0
		}).
		Map(func(decls []FieldDecl) Schema {
			s := Schema{Fields: make(map[string]FieldDecl)}
			for _, d := range decls {
				s.Fields[d.Key] = d
			}
			return s
		})

	properties.Property("round-trip preserves schema", prop.ForAll(
		func(original Schema) bool {
			yamlBytes, err := original.ToYAML()
			if err != nil {
				t.Logf("ToYAML failed: %v", err)
				return false
			}

			parsed, err := ParseSchema(yamlBytes)
			if err != nil {
				t.Logf("ParseSchema failed: %v", err)
				return false
			}

			return reflect.DeepEqual(original, parsed)
		},
		genSchema,
	))

	properties.TestingRun(t)
}

// Property: Invalid YAML Produces Parse Error
// For any byte sequence that is not valid YAML, the schema parser returns a
// parse error or an empty schema.
func TestInvalidYAMLProducesParseError_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genInvalidYAML := gen.OneGenOf(
		gen.Const([]byte("fields: {unclosed")),
		gen.Const([]byte("fields: [unclosed")),
		gen.Const([]byte("fields:\n  key1: value\n key2: value")),
		gen.Const([]byte("fields:\n\t\tkey: value")),
		gen.Const([]byte("fields: @invalid")),
		gen.SliceOfN(50, gen.UInt8Range(128, 255)).Map(func(b []uint8) []byte {
			result := make([]byte, len(b))
			for i, v := range b {
				result[i] = byte(v)
			}
			return result
		}),
	)

	properties.Property("invalid YAML produces error or empty schema", prop.ForAll(
		func(content []byte) bool {
			schema, err := ParseSchema(content)
			if err != nil {
				return true
			}
			return len(schema.Fields) == 0
		},
		genInvalidYAML,
	))

	properties.TestingRun(t)
}
