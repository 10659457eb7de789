package adapters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dbschema-spec/internal/types"
)

func TestValidateSchemaValidDocument(t *testing.T) {
	validator := NewValidatorAdapter(types.DefaultSchemaFields())
	result := validator.ValidateSchema(types.Document{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"$id":     "https://schemas.example.com/postgresql/v15.0/spec.json",
		"title":   "database spec",
		"type":    "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	})

	require.True(t, result.IsValid)
	require.Empty(t, result.Errors)
	require.Empty(t, result.Warnings)
}

func TestValidateSchemaRejectsInvalidDraft7(t *testing.T) {
	validator := NewValidatorAdapter(types.DefaultSchemaFields())
	result := validator.ValidateSchema(types.Document{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      "broken",
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "no-such-type"}},
	})

	require.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
}

func TestValidateSchemaObjectNeedsProperties(t *testing.T) {
	validator := NewValidatorAdapter(types.DefaultSchemaFields())
	result := validator.ValidateSchema(types.Document{
		"title": "bare object",
		"type":  "object",
	})

	require.False(t, result.IsValid)
	require.Contains(t, result.Errors[0], "Missing 'properties'")
}

func TestValidateSchemaRootProjectRequiresDatabaseAndSchema(t *testing.T) {
	validator := NewValidatorAdapter(types.DefaultSchemaFields())
	result := validator.ValidateSchema(types.Document{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"database": map[string]any{"$ref": "database.json"},
		},
	})

	require.False(t, result.IsValid)
	joined := strings.Join(result.Errors, "\n")
	require.Contains(t, joined, "Missing 'schema' property")
	require.NotContains(t, joined, "Missing 'database' property")
}

func TestValidateSchemaNonRootSkipsProjectChecks(t *testing.T) {
	validator := NewValidatorAdapter(types.DefaultSchemaFields())
	// No property references database.json or schema.json, so the
	// root-project requirements do not apply.
	result := validator.ValidateSchema(types.Document{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"$id":     "https://schemas.example.com/config/base.json",
		"title":   "base config",
		"type":    "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	})

	require.True(t, result.IsValid)
}

func TestValidateSchemaRecommendedFieldWarnings(t *testing.T) {
	validator := NewValidatorAdapter(types.DefaultSchemaFields())
	result := validator.ValidateSchema(types.Document{
		"type":       "object",
		"properties": map[string]any{},
	})

	require.True(t, result.IsValid)
	joined := strings.Join(result.Warnings, "\n")
	require.Contains(t, joined, "$schema")
	require.Contains(t, joined, "$id")
	require.Contains(t, joined, "title")
}

func TestValidateSchemaWarnsOnUnresolvedRefs(t *testing.T) {
	validator := NewValidatorAdapter(types.DefaultSchemaFields())
	result := validator.ValidateSchema(types.Document{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"$id":     "https://schemas.example.com/spec.json",
		"title":   "spec",
		"type":    "object",
		"properties": map[string]any{
			"database": map[string]any{"$ref": "#/$defs/database"},
		},
		"allOf": []any{
			map[string]any{"$ref": "mixin.json"},
		},
	})

	joined := strings.Join(result.Warnings, "\n")
	require.Contains(t, joined, "properties.database.$ref: #/$defs/database")
	require.Contains(t, joined, "allOf[0].$ref: mixin.json")
}
