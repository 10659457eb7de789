package ports

import "dbschema-spec/internal/types"

// OutputWriter materializes resolved schemas into the output tree.
// All emitted URLs carry the configured base URL with a trailing slash
// stripped; file paths key on the lower-cased engine name.
type OutputWriter interface {
	// EnsureStructure creates the output root directory.
	EnsureStructure() error

	// WriteVariantSchema writes a resolved schema to
	// <out>/<engine-lower>/<version>/spec.json and returns the path.
	WriteVariantSchema(doc types.Document, variant types.DatabaseVariant) (string, error)

	// WriteProjectSchema writes an already-resolved project schema to
	// outputRel with the $id derived from the base URL injected
	// immediately after $schema.
	WriteProjectSchema(doc types.Document, outputRel string) (string, error)

	// WriteSchemaMap writes smap.json, mapping project schemas and every
	// generated engine/version pair to its URL.
	WriteSchemaMap(engines []string) (string, error)

	// SchemaURL returns the URL a variant's spec is published under.
	SchemaURL(variant types.DatabaseVariant) string
}
