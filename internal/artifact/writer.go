package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteToFile writes the artifact to the specified path, creating parent directories if needed.
// Paths ending in .yaml or .yml are written as YAML, anything else as JSON.
func (a ConfigArtifact) WriteToFile(path string) error {
	// Create parent directories if needed
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	var (
		content []byte
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		content, err = a.ToYAML()
	default:
		content, err = a.ToJSON()
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, content, 0644)
}

// Load reads an artifact written by WriteToFile. Both encodings are decoded
// as YAML, so numbers keep the int/float split of freshly parsed documents.
func Load(path string) (ConfigArtifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ConfigArtifact{}, err
		}
		return ConfigArtifact{}, fmt.Errorf("failed to read artifact: %w", err)
	}

	var a ConfigArtifact
	if err := yaml.Unmarshal(content, &a); err != nil {
		return ConfigArtifact{}, fmt.Errorf("invalid artifact %s: %w", path, err)
	}
	return a, nil
}
