package adapters

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"dbschema-spec/internal/ports"
	"dbschema-spec/internal/types"
)

// ValidatorAdapter checks assembled documents against the JSON Schema
// Draft 7 meta-schema and the project's structural rules. Errors mark the
// result invalid; structural recommendations surface as warnings.
type ValidatorAdapter struct {
	fields types.SchemaFields
}

// NewValidatorAdapter returns a validator using the given field names.
func NewValidatorAdapter(fields types.SchemaFields) *ValidatorAdapter {
	return &ValidatorAdapter{fields: fields}
}

// ValidateSchema validates one schema document.
func (a *ValidatorAdapter) ValidateSchema(doc types.Document) *types.ValidationResult {
	result := types.NewValidationResult()

	a.checkDraft7(doc, result)
	a.checkRequiredFields(doc, result)
	a.checkStructure(doc, result)

	return result
}

// checkDraft7 compiles the document under the Draft 7 meta-schema.
func (a *ValidatorAdapter) checkDraft7(doc types.Document, result *types.ValidationResult) {
	data, err := json.Marshal(doc)
	if err != nil {
		result.AddError("schema is not JSON-encodable: " + err.Error())
		return
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("schema.json", bytes.NewReader(data)); err != nil {
		result.AddError("JSON Schema validation failed: " + err.Error())
		return
	}
	if _, err := compiler.Compile("schema.json"); err != nil {
		result.AddError("JSON Schema validation failed: " + err.Error())
	}
}

// checkRequiredFields enforces the project's structural requirements.
func (a *ValidatorAdapter) checkRequiredFields(doc types.Document, result *types.ValidationResult) {
	if doc["type"] == "object" {
		if _, ok := doc["properties"]; !ok {
			result.AddError("Missing 'properties' field - object type schemas should have properties")
			return
		}
	}

	rawProps, present := doc["properties"]
	props, ok := rawProps.(map[string]any)
	if !ok {
		if present {
			result.AddError("'properties' field must be an object")
		}
		return
	}

	// Root-project schemas are recognized by a $schema declaration plus a
	// property referencing the database or schema document; only those
	// must define both database and schema properties.
	if _, declared := doc[a.fields.Schema]; !declared || !a.referencesProjectDocs(props) {
		return
	}

	if database, ok := props["database"]; !ok {
		result.AddError("Missing 'database' property definition in schema")
	} else if _, ok := database.(map[string]any); !ok {
		result.AddError("'database' property definition must be an object")
	}

	if schemaProp, ok := props["schema"]; !ok {
		result.AddError("Missing 'schema' property definition in schema")
	} else if _, ok := schemaProp.(map[string]any); !ok {
		result.AddError("'schema' property definition must be an object")
	}
}

func (a *ValidatorAdapter) referencesProjectDocs(props map[string]any) bool {
	for _, value := range props {
		prop, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if ref, ok := prop[a.fields.Ref].(string); ok {
			if ref == "database.json" || ref == "schema.json" {
				return true
			}
		}
	}
	return false
}

// checkStructure emits warnings for recommended fields and any unresolved
// references left in the tree.
func (a *ValidatorAdapter) checkStructure(doc types.Document, result *types.ValidationResult) {
	if _, ok := doc[a.fields.Schema]; !ok {
		result.AddWarning("Missing '" + a.fields.Schema + "' field - recommended for schema validation")
	}
	if _, ok := doc[a.fields.ID]; !ok {
		result.AddWarning("Missing '" + a.fields.ID + "' field - recommended for schema identification")
	}
	if _, ok := doc["title"]; !ok {
		result.AddWarning("Missing 'title' field - recommended for documentation")
	}

	a.checkUnresolvedRefs(doc, result, "")
}

// checkUnresolvedRefs walks the tree and warns on every $ref that
// survived resolution, annotated with its path.
func (a *ValidatorAdapter) checkUnresolvedRefs(value any, result *types.ValidationResult, path string) {
	switch typed := value.(type) {
	case map[string]any:
		for key, nested := range typed {
			currentPath := key
			if path != "" {
				currentPath = path + "." + key
			}
			if key == a.fields.Ref {
				if ref, ok := nested.(string); ok {
					result.AddWarning("Unresolved reference found at " + currentPath + ": " + ref)
					continue
				}
			}
			a.checkUnresolvedRefs(nested, result, currentPath)
		}
	case []any:
		for i, item := range typed {
			a.checkUnresolvedRefs(item, result, path+"["+strconv.Itoa(i)+"]")
		}
	}
}

var _ ports.SchemaValidator = (*ValidatorAdapter)(nil)
