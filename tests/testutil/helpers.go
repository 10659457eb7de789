// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// FixtureDocsDir returns the sample schema docs tree committed under
// fixtures/.
func FixtureDocsDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(RepoRoot(t), "fixtures", "docs")
}

// ReadJSONFile parses the JSON document at path into an untyped mapping.
func ReadJSONFile(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc), "invalid JSON in %s", path)
	return doc
}
