package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"inputparser/internal/kind"
)

// ConfigArtifact represents the effective configuration after fallback
type ConfigArtifact struct {
	ConfigVersion string         `json:"configVersion" yaml:"configVersion"` // sha256:hex
	Values        map[string]any `json:"values" yaml:"values"`
	Invalid       []string       `json:"invalid,omitempty" yaml:"invalid,omitempty"` // keys that fell back to their default
}

// Generate creates a config artifact from the effective values. invalid
// lists the keys whose candidate was rejected.
func Generate(values map[string]any, invalid []string) (ConfigArtifact, error) {
	version, err := ComputeConfigVersion(values)
	if err != nil {
		return ConfigArtifact{}, err
	}
	return ConfigArtifact{
		ConfigVersion: version,
		Values:        values,
		Invalid:       invalid,
	}, nil
}

// ComputeConfigVersion computes the SHA-256 hash of the values in canonical form.
// Returns the hash prefixed with "sha256:".
func ComputeConfigVersion(values map[string]any) (string, error) {
	canonical, err := canonicalValuesJSON(values)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(hash[:]), nil
}

// ToJSON serializes the artifact to pretty-printed JSON for human readability.
// Non-finite floats are written in their Canonical form.
func (a ConfigArtifact) ToJSON() ([]byte, error) {
	if a.Values != nil {
		a.Values = Canonical(a.Values).(map[string]any)
	}
	return json.MarshalIndent(a, "", "  ")
}

// ToYAML serializes the artifact to YAML.
func (a ConfigArtifact) ToYAML() ([]byte, error) {
	return yaml.Marshal(a)
}

// canonicalValuesJSON produces canonical JSON for just the values map.
// encoding/json sorts map keys and emits no whitespace.
func canonicalValuesJSON(values map[string]any) ([]byte, error) {
	if len(values) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(Canonical(values))
	if err != nil {
		return nil, fmt.Errorf("cannot encode values: %w", err)
	}
	return b, nil
}

// Canonical returns v with every NaN or infinite float replaced by its YAML
// spelling (".nan", ".inf", "-.inf"), which JSON can carry. Maps and
// sequences are copied; v itself is not modified.
func Canonical(v any) any {
	switch t := v.(type) {
	case float64:
		return canonicalFloat(t)
	case float32:
		return canonicalFloat(float64(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Canonical(e)
		}
		return out
	case string:
		return t
	}
	if elems, ok := kind.Elements(v); ok {
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = Canonical(e)
		}
		return out
	}
	return v
}

func canonicalFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return f
}
