// Package shared provides common utility functions used across multiple
// packages in the dbschema-spec codebase.
package shared

import "strings"

// JoinURL joins a base URL and a relative path with exactly one slash.
// The base's trailing slash is stripped; an empty base returns the
// relative path unchanged.
func JoinURL(base string, rel string) string {
	trimmed := strings.TrimRight(base, "/")
	if trimmed == "" {
		return rel
	}
	return trimmed + "/" + rel
}

// EngineKey normalizes an engine name for use in output paths and URLs.
func EngineKey(engine string) string {
	return strings.ToLower(engine)
}
