package resolver

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source names where a resolved value came from.
type Source string

const (
	SourceNone     Source = ""
	SourceDocument Source = "document"
	SourceEnv      Source = "env"
)

// ResolvedValue represents the candidate found for one template key
type ResolvedValue struct {
	Key     string // The config key path (e.g., "db.url")
	EnvVar  string // The environment variable that may override it (e.g., "DB_URL")
	Value   any    // The candidate value (nil if not set)
	Present bool   // Whether any source set the key
	Source  Source // Which source the value came from
}

// Resolve looks up every key in doc and returns one ResolvedValue per key,
// sorted by key. A dotted key that is not set at the top level is looked up
// through nested mappings ("db.url" -> doc["db"]["url"]).
func Resolve(keys []string, doc map[string]any) []ResolvedValue {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	results := make([]ResolvedValue, 0, len(sorted))
	for _, key := range sorted {
		rv := ResolvedValue{Key: key, EnvVar: PathToEnvVar(key)}
		if value, ok := lookup(doc, key); ok {
			rv.Value = value
			rv.Present = true
			rv.Source = SourceDocument
		}
		results = append(results, rv)
	}
	return results
}

// OverrideFromEnv replaces resolved values with environment variables named
// after their keys (see PathToEnvVar), optionally prefixed with prefix and an
// underscore. Environment values are decoded as YAML scalars or flow
// collections, so "0.05" yields a float and "[1, 2]" a sequence.
func OverrideFromEnv(resolved []ResolvedValue, environ []string, prefix string) []ResolvedValue {
	envMap := parseEnviron(environ)

	results := make([]ResolvedValue, len(resolved))
	for i, rv := range resolved {
		name := rv.EnvVar
		if prefix != "" {
			name = strings.ToUpper(prefix) + "_" + name
		}
		if raw, ok := envMap[name]; ok {
			rv.EnvVar = name
			rv.Value = decodeEnvValue(raw)
			rv.Present = true
			rv.Source = SourceEnv
		}
		results[i] = rv
	}
	return results
}

// UnknownKeys returns the top-level document keys that match no template key
// and are not a parent of a dotted template key, sorted.
func UnknownKeys(keys []string, doc map[string]any) []string {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
		if i := strings.Index(k, "."); i > 0 {
			known[k[:i]] = true
		}
	}

	var unknown []string
	for k := range doc {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func lookup(doc map[string]any, key string) (any, bool) {
	if v, ok := doc[key]; ok {
		return v, true
	}

	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return nil, false
	}
	var cur any = doc
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func decodeEnvValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	if _, isMap := v.(map[string]any); isMap {
		return raw
	}
	return v
}

// parseEnviron converts an environ slice (["KEY=VALUE", ...]) into a map.
// Handles edge cases like empty values ("KEY=") and values containing "=" ("KEY=a=b").
func parseEnviron(environ []string) map[string]string {
	result := make(map[string]string)
	for _, entry := range environ {
		// Split on first "=" only - values can contain "="
		idx := strings.Index(entry, "=")
		if idx == -1 {
			// No "=" found, skip malformed entry
			continue
		}
		key := entry[:idx]
		value := entry[idx+1:]
		result[key] = value
	}
	return result
}
