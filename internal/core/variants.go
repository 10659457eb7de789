package core

import (
	"github.com/rs/zerolog/log"

	"dbschema-spec/internal/types"
)

// VariantExtractor reads the database registry's oneOf block and produces
// the full set of supported (engine, version) variants. The registry is
// loaded through the reference resolver, so it may itself use $ref.
type VariantExtractor struct {
	resolver     *Resolver
	registryFile string
	fields       types.SchemaFields
}

// NewVariantExtractor builds an extractor over the given resolver and
// base-relative registry path.
func NewVariantExtractor(resolver *Resolver, registryFile string, fields types.SchemaFields) *VariantExtractor {
	return &VariantExtractor{
		resolver:     resolver,
		registryFile: registryFile,
		fields:       fields,
	}
}

// ExtractVariants resolves the registry document and parses its oneOf
// block. A malformed registry, an invalid variant entry, or an empty
// result all fail with a VariantExtractionError.
func (e *VariantExtractor) ExtractVariants() ([]types.DatabaseVariant, error) {
	registry, err := e.resolver.ResolveFile(e.registryFile)
	if err != nil {
		return nil, &types.VariantExtractionError{
			Msg:   "failed to extract variants from " + e.registryFile,
			Cause: err,
		}
	}

	branches, ok := registry[e.fields.OneOf].([]any)
	if !ok {
		return nil, &types.VariantExtractionError{
			Msg: "invalid oneOf structure in " + e.registryFile,
		}
	}

	variants, err := e.ParseOneOfBlock(branches)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, &types.VariantExtractionError{
			Msg: "no variants found in " + e.registryFile,
		}
	}

	log.Debug().Int("variants", len(variants)).Str("registry", e.registryFile).Msg("variants extracted")
	return variants, nil
}

// ParseOneOfBlock extracts variants from registry oneOf branches. Only
// branches fully specifying both engine and version as string consts count
// as variants; incomplete branches are skipped. A branch that does specify
// both but fails variant validation is a hard error, since the registry is
// authoritative and malformed entries indicate a data-integrity bug.
func (e *VariantExtractor) ParseOneOfBlock(branches []any) ([]types.DatabaseVariant, error) {
	var variants []types.DatabaseVariant
	for _, raw := range branches {
		branch, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		props, ok := branch["properties"].(map[string]any)
		if !ok {
			continue
		}

		engine, okEngine := constString(props, "engine")
		version, okVersion := constString(props, "version")
		if !okEngine || !okVersion {
			continue
		}

		variant, err := types.NewDatabaseVariant(engine, version)
		if err != nil {
			return nil, &types.VariantExtractionError{
				Msg:   "invalid variant data - engine: " + engine + ", version: " + version,
				Cause: err,
			}
		}
		variants = append(variants, variant)
	}
	return variants, nil
}
