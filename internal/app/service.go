package app

import (
	"context"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"dbschema-spec/internal/adapters"
	"dbschema-spec/internal/core"
	"dbschema-spec/internal/ports"
	"dbschema-spec/internal/types"
)

// ProjectSchema names a docs-tree schema copied into the output with its
// $id injected.
type ProjectSchema struct {
	Source string
	Output string
}

// Config carries everything one generation run needs.
type Config struct {
	DocsDir        string
	OutputDir      string
	BaseURL        string
	RootSchemaFile string
	RegistryFile   string
	Fields         types.SchemaFields
	ProjectSchemas []ProjectSchema
}

// DefaultProjectSchemas lists the project schemas the schema map
// advertises; sources missing from the docs tree are skipped at write
// time.
func DefaultProjectSchemas() []ProjectSchema {
	return []ProjectSchema{
		{Source: "manifest.json", Output: "manifest.json"},
		{Source: "config/base.json", Output: "config/base.json"},
	}
}

// Service orchestrates a full generation run: extract variants, resolve
// the root schema once per variant with a fresh resolver, validate, and
// hand the results to the output writer.
type Service struct {
	Docs           ports.DocumentSource
	Output         ports.OutputWriter
	Validator      ports.SchemaValidator
	Fields         types.SchemaFields
	RootSchemaFile string
	RegistryFile   string
	ProjectSchemas []ProjectSchema
}

// NewService wires the default adapters for a config. BaseURL is required;
// its absence is a ConfigurationError.
func NewService(cfg Config) (Service, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return Service{}, &types.ConfigurationError{Variable: "BASE_URL"}
	}

	docs := adapters.NewSourceFileAdapter(cfg.DocsDir)
	return Service{
		Docs:           docs,
		Output:         adapters.NewOutputFileAdapter(cfg.OutputDir, cfg.BaseURL, cfg.Fields),
		Validator:      adapters.NewValidatorAdapter(cfg.Fields),
		Fields:         cfg.Fields,
		RootSchemaFile: cfg.RootSchemaFile,
		RegistryFile:   cfg.RegistryFile,
		ProjectSchemas: cfg.ProjectSchemas,
	}, nil
}

// GenerateResult reports what a full run produced.
type GenerateResult struct {
	Files    []string
	Variants []types.DatabaseVariant
}

// GenerateAll generates one unified schema per registry variant, then the
// project schemas and the schema map.
func (s Service) GenerateAll(ctx context.Context) (GenerateResult, error) {
	if err := s.Output.EnsureStructure(); err != nil {
		return GenerateResult{}, err
	}

	variants, err := s.ListVariants(ctx)
	if err != nil {
		return GenerateResult{}, err
	}

	result := GenerateResult{Variants: variants}
	for _, variant := range variants {
		log.Info().Str("variant", variant.String()).Msg("generating schema")
		path, err := s.GenerateVariant(ctx, variant)
		if err != nil {
			return GenerateResult{}, err
		}
		result.Files = append(result.Files, path)
	}

	for _, project := range s.projectSchemas(variants) {
		if !s.Docs.Exists(project.Source) {
			log.Debug().Str("source", project.Source).Msg("project schema source missing, skipped")
			continue
		}
		resolved, err := core.NewResolver(s.Docs, s.Fields, nil).ResolveFile(project.Source)
		if err != nil {
			return GenerateResult{}, err
		}
		path, err := s.Output.WriteProjectSchema(resolved, project.Output)
		if err != nil {
			return GenerateResult{}, err
		}
		result.Files = append(result.Files, path)
	}

	log.Info().Msg("generating schema map")
	mapPath, err := s.Output.WriteSchemaMap(engineNames(variants))
	if err != nil {
		return GenerateResult{}, err
	}
	result.Files = append(result.Files, mapPath)

	log.Info().Int("files", len(result.Files)).Msg("generation completed")
	return result, nil
}

// GenerateVariant resolves, merges, validates, and writes the unified
// schema for one variant. A fresh resolver (own stack and cache) is built
// per call so variant passes never share mutable state.
func (s Service) GenerateVariant(ctx context.Context, variant types.DatabaseVariant) (string, error) {
	assert.NotEmpty(ctx, variant.Engine, "variant engine must be set")
	assert.NotEmpty(ctx, variant.Version, "variant version must be set")

	resolver := core.NewResolver(s.Docs, s.Fields, &variant)
	merger := core.NewConditionalMerger(resolver, s.Fields)

	base, err := resolver.ResolveFile(s.RootSchemaFile)
	if err != nil {
		return "", err
	}

	unified, err := merger.ApplyConditionalLogic(base, variant)
	if err != nil {
		return "", err
	}
	unified[s.Fields.ID] = s.Output.SchemaURL(variant)

	validation := s.Validator.ValidateSchema(unified)
	for _, warning := range validation.Warnings {
		log.Warn().Str("variant", variant.String()).Msg(warning)
	}
	if !validation.IsValid {
		return "", &types.ValidationError{Messages: validation.Errors}
	}

	return s.Output.WriteVariantSchema(unified, variant)
}

// ListVariants extracts the registry's variant set without generating.
func (s Service) ListVariants(_ context.Context) ([]types.DatabaseVariant, error) {
	resolver := core.NewResolver(s.Docs, s.Fields, nil)
	extractor := core.NewVariantExtractor(resolver, s.RegistryFile, s.Fields)
	return extractor.ExtractVariants()
}

// ResolveDocument resolves one docs-tree file, optionally variant-bound,
// without writing anything. Used by the resolve command for debugging.
func (s Service) ResolveDocument(_ context.Context, path string, variant *types.DatabaseVariant) (types.Document, error) {
	resolver := core.NewResolver(s.Docs, s.Fields, variant)
	doc, err := resolver.ResolveFile(path)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return doc, nil
	}
	merger := core.NewConditionalMerger(resolver, s.Fields)
	return merger.ApplyConditionalLogic(doc, *variant)
}

// ValidateFile validates a resolved JSON document on disk (a generated
// output file, typically).
func (s Service) ValidateFile(_ context.Context, path string) (*types.ValidationResult, error) {
	source := adapters.NewSourceFileAdapter(filepath.Dir(path))
	doc, err := source.Load(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return s.Validator.ValidateSchema(doc), nil
}

// projectSchemas extends the configured list with the per-engine config
// schemas, at both the flat and the engines/ locations the schema map can
// advertise. Missing sources are filtered out by the caller.
func (s Service) projectSchemas(variants []types.DatabaseVariant) []ProjectSchema {
	schemas := append([]ProjectSchema{}, s.ProjectSchemas...)
	for _, engine := range engineNames(variants) {
		key := strings.ToLower(engine)
		schemas = append(schemas,
			ProjectSchema{Source: "config/" + key + ".json", Output: "config/" + key + ".json"},
			ProjectSchema{Source: "config/engines/" + key + ".json", Output: "config/engines/" + key + ".json"},
		)
	}
	return schemas
}

func engineNames(variants []types.DatabaseVariant) []string {
	seen := make(map[string]struct{}, len(variants))
	var engines []string
	for _, variant := range variants {
		if _, dup := seen[variant.Engine]; dup {
			continue
		}
		seen[variant.Engine] = struct{}{}
		engines = append(engines, variant.Engine)
	}
	return engines
}
