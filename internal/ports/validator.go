package ports

import "dbschema-spec/internal/types"

// SchemaValidator checks an assembled schema document against JSON Schema
// standards and project structural rules. Implementations report problems
// through the returned result; they do not fail hard themselves.
type SchemaValidator interface {
	ValidateSchema(doc types.Document) *types.ValidationResult
}
