package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"inputparser/internal/constraint"
	"inputparser/internal/field"
	"inputparser/internal/kind"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the schema file looked up by LoadSchema.
const DefaultFileName = "inputparser.yaml"

// schemaFile represents the YAML file structure
type schemaFile struct {
	Fields map[string]fieldEntry `yaml:"fields"`
}

// fieldEntry represents a single field entry in YAML
type fieldEntry struct {
	Types      []string       `yaml:"types"`
	Default    any            `yaml:"default"`
	Required   bool           `yaml:"required,omitempty"`
	Constraint string         `yaml:"constraint,omitempty"`
	Params     map[string]any `yaml:"params,omitempty"`
}

// keyRegex validates field keys: alphanumeric, dots, hyphens, underscores
var keyRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ParseSchema parses YAML content into a Schema
func ParseSchema(content []byte) (Schema, error) {
	var sf schemaFile
	if err := yaml.Unmarshal(content, &sf); err != nil {
		return Schema{}, fmt.Errorf("invalid YAML: %w", err)
	}

	schema := Schema{
		Fields: make(map[string]FieldDecl),
	}

	for key, entry := range sf.Fields {
		decl, err := parseEntry(key, entry)
		if err != nil {
			return Schema{}, err
		}
		schema.Fields[key] = decl
	}

	return schema, nil
}

func parseEntry(key string, entry fieldEntry) (FieldDecl, error) {
	if !keyRegex.MatchString(key) {
		return FieldDecl{}, fmt.Errorf("field key '%s' contains invalid characters", key)
	}

	if len(entry.Types) == 0 {
		return FieldDecl{}, fmt.Errorf("field '%s': missing required field 'types'", key)
	}
	types := make([]kind.Kind, 0, len(entry.Types))
	for _, name := range entry.Types {
		k, err := kind.Parse(name)
		if err != nil {
			return FieldDecl{}, fmt.Errorf("field '%s': %w", key, err)
		}
		types = append(types, k)
	}

	if entry.Constraint == "" && len(entry.Params) > 0 {
		return FieldDecl{}, fmt.Errorf("field '%s': params given without a constraint", key)
	}
	if entry.Constraint != "" {
		if _, ok := constraint.Lookup(entry.Constraint); !ok {
			return FieldDecl{}, fmt.Errorf("unknown constraint '%s' for field '%s'", entry.Constraint, key)
		}
	}
	if entry.Constraint == constraint.Elements.Name() {
		if _, ok := constraint.AsConstraint(entry.Params[constraint.ParamElementConstraint]); !ok {
			return FieldDecl{}, fmt.Errorf("field '%s': '%s' requires a known '%s'",
				key, entry.Constraint, constraint.ParamElementConstraint)
		}
	}

	decl := FieldDecl{
		Key:        key,
		Types:      types,
		Default:    entry.Default,
		Required:   entry.Required,
		Constraint: entry.Constraint,
		Params:     entry.Params,
	}

	// The default has to be of a declared kind so that falling back to it
	// yields a usable value.
	if decl.Default != nil {
		defaultCheck, err := field.New(nil, types)
		if err != nil {
			return FieldDecl{}, fmt.Errorf("field '%s': %w", key, err)
		}
		if ok, _ := defaultCheck.Validate(decl.Default, field.SuppressError()); !ok {
			return FieldDecl{}, fmt.Errorf("field '%s': default '%s' is of type '%s', not one of the declared types",
				key, constraint.Format(decl.Default), kind.Of(decl.Default))
		}
	}

	return decl, nil
}

// Template builds a fresh Field for every declaration.
func (s Schema) Template() (Template, error) {
	tpl := make(Template, len(s.Fields))
	for key, decl := range s.Fields {
		var opts []field.Option
		if decl.Constraint != "" {
			c, ok := constraint.Lookup(decl.Constraint)
			if !ok {
				return nil, fmt.Errorf("unknown constraint '%s' for field '%s'", decl.Constraint, key)
			}
			opts = append(opts, field.WithConstraint(c, decl.Params))
		}

		f, err := field.New(decl.Default, decl.Types, opts...)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", key, err)
		}
		tpl[key] = Entry{Field: f, Required: decl.Required}
	}
	return tpl, nil
}

// ToYAML serializes a Schema back to YAML bytes
func (s Schema) ToYAML() ([]byte, error) {
	sf := schemaFile{
		Fields: make(map[string]fieldEntry),
	}

	for key, decl := range s.Fields {
		types := make([]string, len(decl.Types))
		for i, k := range decl.Types {
			types[i] = k.String()
		}
		sf.Fields[key] = fieldEntry{
			Types:      types,
			Default:    decl.Default,
			Required:   decl.Required,
			Constraint: decl.Constraint,
			Params:     decl.Params,
		}
	}

	return yaml.Marshal(&sf)
}

// LoadSchema reads and parses inputparser.yaml from the given directory
func LoadSchema(dir string) (Schema, error) {
	path := filepath.Join(dir, DefaultFileName)
	return LoadSchemaFromPath(path)
}

// LoadSchemaFromPath reads and parses a schema from the given file path
func LoadSchemaFromPath(path string) (Schema, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Schema{}, err
		}
		return Schema{}, fmt.Errorf("failed to read schema: %w", err)
	}

	return ParseSchema(content)
}
