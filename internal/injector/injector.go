// Package injector renders effective values as environment variables, in the
// same naming and encoding resolver.OverrideFromEnv reads back.
package injector

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"inputparser/internal/kind"
	"inputparser/internal/resolver"
)

// Environ maps every non-nil value to its environment variable name,
// optionally prefixed with prefix and an underscore.
func Environ(values map[string]any, prefix string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for key, v := range values {
		if v == nil {
			continue
		}
		encoded, err := encode(v, true)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", key, err)
		}
		out[envName(key, prefix)] = encoded
	}
	return out, nil
}

// WriteDotenv writes values to path in .env format, creating parent
// directories if needed.
func WriteDotenv(path string, values map[string]any, prefix string) error {
	vars, err := Environ(values, prefix)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return godotenv.Write(vars, path)
}

func envName(key, prefix string) string {
	name := resolver.PathToEnvVar(key)
	if prefix != "" {
		name = strings.ToUpper(prefix) + "_" + name
	}
	return name
}

// encode renders v as a YAML scalar or flow sequence. Top-level strings are
// left bare unless they would decode as something else.
func encode(v any, top bool) (string, error) {
	switch x := v.(type) {
	case string:
		if top && decodesAsString(x) {
			return x, nil
		}
		b, err := json.Marshal(x)
		return string(b), err
	case bool:
		return strconv.FormatBool(x), nil
	case float32:
		return formatFloat(float64(x)), nil
	case float64:
		return formatFloat(x), nil
	}

	switch kind.Of(v) {
	case kind.Int:
		return fmt.Sprint(v), nil
	case kind.Sequence:
		elems, _ := kind.Elements(v)
		parts := make([]string, len(elems))
		for i, e := range elems {
			s, err := encode(e, false)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case kind.Complex:
		return "", fmt.Errorf("complex value %v has no environment form", v)
	}

	b, err := json.Marshal(v)
	return string(b), err
}

func decodesAsString(s string) bool {
	if s == "" {
		return false
	}
	var decoded any
	if err := yaml.Unmarshal([]byte(s), &decoded); err != nil {
		return false
	}
	d, ok := decoded.(string)
	return ok && d == s
}

// formatFloat keeps a decimal point so the value decodes as a float again.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
