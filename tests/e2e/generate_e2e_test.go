package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dbschema-spec/tests/testutil"
)

func TestGenerateCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", ".", "generate",
		"--docs", "fixtures/docs",
		"--output", outDir,
		"--base-url", "https://schemas.example.com",
		"--root-schema", "specs.json",
		"--registry", "database.json",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "postgresql", "v15.0", "spec.json"))
	require.FileExists(t, filepath.Join(outDir, "postgresql", "v16.0", "spec.json"))
	require.FileExists(t, filepath.Join(outDir, "mysql", "v8.0", "spec.json"))
	require.FileExists(t, filepath.Join(outDir, "manifest.json"))
	require.FileExists(t, filepath.Join(outDir, "config", "base.json"))
	require.FileExists(t, filepath.Join(outDir, "smap.json"))

	// Generated specs must be self-contained and carry $id directly
	// after $schema in the serialized bytes.
	data, err := os.ReadFile(filepath.Join(outDir, "postgresql", "v15.0", "spec.json"))
	require.NoError(t, err)
	text := string(data)
	require.NotContains(t, text, `"$ref"`)
	require.NotContains(t, text, `"oneOf"`)

	schemaAt := strings.Index(text, `"$schema"`)
	idAt := strings.Index(text, `"$id"`)
	require.True(t, schemaAt >= 0, "missing $schema")
	require.True(t, idAt > schemaAt, "$id must follow $schema")
	require.Contains(t, text, `"$id": "https://schemas.example.com/postgresql/v15.0/spec.json"`)

	configData, err := os.ReadFile(filepath.Join(outDir, "config", "postgresql.json"))
	require.NoError(t, err)
	configText := string(configData)
	require.NotContains(t, configText, `"$ref"`)
	require.True(t, strings.Index(configText, `"$schema"`) < strings.Index(configText, `"$id"`),
		"$id must follow $schema")
	require.Contains(t, configText, `"$id": "https://schemas.example.com/config/postgresql.json"`)
}

func TestVariantsCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", ".", "variants",
		"--docs", "fixtures/docs",
		"--registry", "database.json",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on", "BASE_URL=https://schemas.example.com")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	text := string(out)
	require.Contains(t, text, "PostgreSQL v15.0")
	require.Contains(t, text, "PostgreSQL v16.0")
	require.Contains(t, text, "MySQL v8.0")
}

func TestGenerateCommandMissingRootSchemaE2E(t *testing.T) {
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", ".", "generate",
		"--docs", "fixtures/docs",
		"--output", t.TempDir(),
		"--base-url", "https://schemas.example.com",
		"--root-schema", "nope.json",
		"--registry", "database.json",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.Error(t, err, string(out))
}
