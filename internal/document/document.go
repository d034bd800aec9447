// Package document loads user settings documents. JSON documents are read as
// YAML, of which JSON is a subset.
package document

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// InvalidDocumentError occurs if a document is not valid YAML or JSON, or if
// its top level is not a mapping.
type InvalidDocumentError struct {
	cause error
}

// Error implements the error interface.
func (e InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid document: %s", e.cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidDocumentError) Unwrap() error {
	return e.cause
}

// Parse decodes content into a key/value mapping. An empty document yields
// an empty mapping.
func Parse(content []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, InvalidDocumentError{cause: err}
	}
	if doc == nil {
		return map[string]any{}, nil
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return nil, InvalidDocumentError{cause: fmt.Errorf("top level is a %T, not a mapping", doc)}
	}
	return m, nil
}

// Read parses everything r yields.
func Read(r io.Reader) (map[string]any, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Load reads and parses the document at path.
func Load(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(content)
}
