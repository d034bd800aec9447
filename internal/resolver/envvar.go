package resolver

import "strings"

// PathToEnvVar converts a config path (dot-notation) to an environment variable name.
// e.g., "db.url" -> "DB_URL", "interest-rate" -> "INTEREST_RATE"
func PathToEnvVar(path string) string {
	if path == "" {
		return ""
	}
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(path))
}
