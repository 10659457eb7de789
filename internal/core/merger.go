package core

import (
	"dbschema-spec/internal/ports"
	"dbschema-spec/internal/types"
)

// branchShape classifies the condition encoding of one oneOf branch. The
// shape is detected structurally once per branch, then dispatched on;
// unrecognized branches never match.
type branchShape int

const (
	shapeUnrecognized branchShape = iota

	// shapeIfThenNested: if.properties.database.properties.{engine,version}
	shapeIfThenNested

	// shapeIfThenDirect: if.properties.{engine,version}
	shapeIfThenDirect

	// shapeDirectProperties: no if; top-level properties carry the
	// engine/version constraints and are themselves the merge payload.
	shapeDirectProperties
)

// ConditionalMerger collapses a schema's oneOf block to the single branch
// matching a database variant, deep-merged into the base document with the
// oneOf node removed. Exactly-one-match is a hard invariant: zero matches
// and multiple matches both fail.
type ConditionalMerger struct {
	resolver ports.RefResolver
	fields   types.SchemaFields
}

// NewConditionalMerger builds a merger around a reference-resolution
// capability, used when a matching branch's then clause carries a $ref.
func NewConditionalMerger(resolver ports.RefResolver, fields types.SchemaFields) *ConditionalMerger {
	return &ConditionalMerger{resolver: resolver, fields: fields}
}

// ApplyConditionalLogic selects and merges the oneOf branch matching the
// variant. A document without a oneOf sequence is returned unchanged
// (shallow-copied); zero matches fail with NoMatchingBranchError listing
// every advertised variant, multiple matches fail with
// AmbiguousBranchError.
func (m *ConditionalMerger) ApplyConditionalLogic(base types.Document, variant types.DatabaseVariant) (types.Document, error) {
	result := make(types.Document, len(base))
	for key, value := range base {
		result[key] = value
	}

	branches, ok := result[m.fields.OneOf].([]any)
	if !ok {
		return result, nil
	}

	var matched []types.Document
	for _, raw := range branches {
		branch, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if matchesVariant(branch, variant) {
			matched = append(matched, branch)
		}
	}

	switch len(matched) {
	case 0:
		return nil, &types.NoMatchingBranchError{
			Variant:   variant,
			Supported: advertisedVariants(branches),
		}
	case 1:
	default:
		return nil, &types.AmbiguousBranchError{Variant: variant}
	}

	merged, err := m.mergeBranch(result, matched[0])
	if err != nil {
		return nil, err
	}
	delete(merged, m.fields.OneOf)
	return merged, nil
}

// mergeBranch merges the single matching branch into the base document.
func (m *ConditionalMerger) mergeBranch(base types.Document, branch types.Document) (types.Document, error) {
	switch classifyBranch(branch) {
	case shapeIfThenNested, shapeIfThenDirect:
		thenClause, ok := branch["then"].(map[string]any)
		if !ok {
			return base, nil
		}
		if _, hasRef := thenClause[m.fields.Ref]; hasRef {
			resolved, err := m.resolver.ResolveReferences(thenClause, "")
			if err != nil {
				return nil, &types.ValidationError{
					Messages: []string{"failed to resolve then clause reference: " + err.Error()},
				}
			}
			return deepMerge(base, resolved), nil
		}
		return deepMerge(base, thenClause), nil

	case shapeDirectProperties:
		branchProps, ok := branch["properties"].(map[string]any)
		if !ok {
			return base, nil
		}
		baseProps, ok := base["properties"].(map[string]any)
		if !ok {
			baseProps = map[string]any{}
		}
		result := make(types.Document, len(base)+1)
		for key, value := range base {
			result[key] = value
		}
		result["properties"] = deepMerge(baseProps, branchProps)
		return result, nil

	default:
		return base, nil
	}
}

// classifyBranch detects the condition encoding of a branch.
func classifyBranch(branch types.Document) branchShape {
	if ifClause, ok := branch["if"].(map[string]any); ok {
		props, ok := ifClause["properties"].(map[string]any)
		if !ok {
			return shapeUnrecognized
		}
		if database, ok := props["database"].(map[string]any); ok {
			if _, ok := database["properties"].(map[string]any); ok {
				return shapeIfThenNested
			}
			return shapeUnrecognized
		}
		if _, ok := props["engine"]; ok {
			return shapeIfThenDirect
		}
		if _, ok := props["version"]; ok {
			return shapeIfThenDirect
		}
		return shapeUnrecognized
	}
	if _, ok := branch["properties"].(map[string]any); ok {
		return shapeDirectProperties
	}
	return shapeUnrecognized
}

// constraintProperties extracts the engine/version constraint mapping of a
// branch according to its shape, or nil for unrecognized branches.
func constraintProperties(branch types.Document) map[string]any {
	switch classifyBranch(branch) {
	case shapeIfThenNested:
		ifClause := branch["if"].(map[string]any)
		props := ifClause["properties"].(map[string]any)
		database := props["database"].(map[string]any)
		return database["properties"].(map[string]any)
	case shapeIfThenDirect:
		ifClause := branch["if"].(map[string]any)
		return ifClause["properties"].(map[string]any)
	case shapeDirectProperties:
		return branch["properties"].(map[string]any)
	default:
		return nil
	}
}

// matchesVariant reports whether the branch's condition matches the
// variant: every present constraint must equal the corresponding field; an
// absent constraint always matches.
func matchesVariant(branch types.Document, variant types.DatabaseVariant) bool {
	props := constraintProperties(branch)
	if props == nil {
		return false
	}
	return fieldMatches(props, "engine", variant.Engine) &&
		fieldMatches(props, "version", variant.Version)
}

// fieldMatches checks one constraint entry against a variant field. A
// constraint matches when it is a mapping with a string const equal to the
// field, or a bare string equal to the field; any other encoding places no
// constraint on the field.
func fieldMatches(props map[string]any, name string, value string) bool {
	constraint, ok := props[name]
	if !ok {
		return true
	}
	switch typed := constraint.(type) {
	case map[string]any:
		if constValue, ok := typed["const"]; ok {
			s, ok := constValue.(string)
			return ok && s == value
		}
		return true
	case string:
		return typed == value
	default:
		return true
	}
}

// advertisedVariants walks every branch and extracts its (engine, version)
// const pair for no-match diagnostics. Branches without an extractable
// pair are skipped.
func advertisedVariants(branches []any) []string {
	var variants []string
	for _, raw := range branches {
		branch, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		props := constraintProperties(branch)
		if props == nil {
			continue
		}
		engine, okEngine := constString(props, "engine")
		version, okVersion := constString(props, "version")
		if okEngine && okVersion {
			variants = append(variants, engine+" "+version)
		}
	}
	return variants
}

// constString extracts a {"const": "..."} string value from a constraint
// mapping.
func constString(props map[string]any, name string) (string, bool) {
	constraint, ok := props[name].(map[string]any)
	if !ok {
		return "", false
	}
	value, ok := constraint["const"].(string)
	return value, ok
}

// deepMerge recursively combines two mapping trees. Overlapping mapping
// values merge key-by-key; any other overlap is overwritten by the
// overlay, arrays included (replaced wholesale, never concatenated).
func deepMerge(base map[string]any, overlay map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(overlay))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range overlay {
		baseValue, present := result[key]
		baseMap, baseIsMap := baseValue.(map[string]any)
		overlayMap, overlayIsMap := value.(map[string]any)
		if present && baseIsMap && overlayIsMap {
			result[key] = deepMerge(baseMap, overlayMap)
			continue
		}
		result[key] = value
	}
	return result
}
