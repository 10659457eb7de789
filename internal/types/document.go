package types

// Document is the untyped JSON Schema document tree. Values are nested
// map[string]any, []any, or scalars (string, json.Number/float64, bool,
// nil) exactly as produced by the document source.
//
// Resolution transforms return new trees rather than mutating inputs, so a
// loaded Document can be resolved repeatedly (e.g. once per variant).
type Document = map[string]any

// SchemaFields names the reserved JSON Schema keywords the engine treats
// specially. They are configurable rather than hard literals so a document
// set using non-standard keyword names can still be processed.
type SchemaFields struct {
	Ref    string `mapstructure:"ref_field"`
	OneOf  string `mapstructure:"oneof_field"`
	Schema string `mapstructure:"schema_field"`
	ID     string `mapstructure:"id_field"`
}

// DefaultSchemaFields returns the standard JSON Schema keyword names.
func DefaultSchemaFields() SchemaFields {
	return SchemaFields{
		Ref:    "$ref",
		OneOf:  "oneOf",
		Schema: "$schema",
		ID:     "$id",
	}
}

// CloneDocument returns a deep copy of a document tree. Sequences and
// nested mappings are copied; scalars are shared (they are immutable).
func CloneDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneDocument(typed)
	case []any:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return value
	}
}
