package adapters

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"dbschema-spec/internal/ports"
	"dbschema-spec/internal/shared"
	"dbschema-spec/internal/types"
)

// Names under the output root that are never engine directories.
var reservedOutputNames = map[string]struct{}{
	"config":        {},
	"manifest.json": {},
	"smap.json":     {},
}

// OutputFileAdapter implements ports.OutputWriter over a local output
// directory. Documents are written deterministically: two-space indent,
// top-level keys ordered $schema, $id, then sorted; nested objects sorted.
type OutputFileAdapter struct {
	dir     string
	baseURL string
	fields  types.SchemaFields
}

// NewOutputFileAdapter returns a writer targeting dir. baseURL prefixes
// every emitted URL (its trailing slash is stripped).
func NewOutputFileAdapter(dir string, baseURL string, fields types.SchemaFields) *OutputFileAdapter {
	return &OutputFileAdapter{
		dir:     dir,
		baseURL: baseURL,
		fields:  fields,
	}
}

// EnsureStructure creates the output root directory.
func (a *OutputFileAdapter) EnsureStructure() error {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg("failed to create output directory: " + a.dir).
			WithCause(err)
	}
	return nil
}

// WriteVariantSchema writes a resolved schema to
// <out>/<engine-lower>/<version>/spec.json.
func (a *OutputFileAdapter) WriteVariantSchema(doc types.Document, variant types.DatabaseVariant) (string, error) {
	path := filepath.Join(a.dir, shared.EngineKey(variant.Engine), variant.Version, "spec.json")
	if err := a.writeDocument(path, doc); err != nil {
		return "", err
	}
	log.Debug().Str("path", path).Str("variant", variant.String()).Msg("variant schema written")
	return path, nil
}

// WriteProjectSchema writes a resolved project schema to outputRel with
// $id = <base_url>/<outputRel> injected. The encoder places $id
// immediately after $schema (or first when no $schema is present).
func (a *OutputFileAdapter) WriteProjectSchema(doc types.Document, outputRel string) (string, error) {
	injected := types.CloneDocument(doc)
	injected[a.fields.ID] = shared.JoinURL(a.baseURL, outputRel)

	path := filepath.Join(a.dir, filepath.FromSlash(outputRel))
	if err := a.writeDocument(path, injected); err != nil {
		return "", err
	}
	log.Debug().Str("path", path).Msg("project schema written")
	return path, nil
}

// WriteSchemaMap writes smap.json in the output root: the project schema
// URLs (manifest, base config, per-engine configs) plus the engine map
// scanned from the generated output tree.
func (a *OutputFileAdapter) WriteSchemaMap(engines []string) (string, error) {
	engineConfigs := map[string]any{}
	for _, engine := range engines {
		key := shared.EngineKey(engine)
		engineConfigs[key] = shared.JoinURL(a.baseURL, "config/engines/"+key+".json")
	}

	engineMap, err := a.scanEngineMap()
	if err != nil {
		return "", err
	}

	schemaMap := types.Document{
		"project": map[string]any{
			"manifest": shared.JoinURL(a.baseURL, "manifest.json"),
			"config": map[string]any{
				"base":    shared.JoinURL(a.baseURL, "config/base.json"),
				"engines": engineConfigs,
			},
		},
		"engines": engineMap,
	}

	path := filepath.Join(a.dir, "smap.json")
	if err := a.writeDocument(path, schemaMap); err != nil {
		return "", err
	}
	return path, nil
}

// SchemaURL returns the URL a variant's generated spec is published under.
func (a *OutputFileAdapter) SchemaURL(variant types.DatabaseVariant) string {
	return shared.JoinURL(a.baseURL, variant.OutputPath()+"/spec.json")
}

// scanEngineMap walks the output tree and maps every engine directory to
// its versions' spec URLs. Only version directories already holding a
// spec.json count.
func (a *OutputFileAdapter) scanEngineMap() (map[string]any, error) {
	engineMap := map[string]any{}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return engineMap, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg("failed to scan output directory: " + a.dir).
			WithCause(err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name[0] == '.' {
			continue
		}
		if _, reserved := reservedOutputNames[name]; reserved {
			continue
		}

		versions := map[string]any{}
		versionEntries, err := os.ReadDir(filepath.Join(a.dir, name))
		if err != nil {
			continue
		}
		for _, versionEntry := range versionEntries {
			if !versionEntry.IsDir() {
				continue
			}
			specPath := filepath.Join(a.dir, name, versionEntry.Name(), "spec.json")
			if _, err := os.Stat(specPath); err != nil {
				continue
			}
			versions[versionEntry.Name()] = shared.JoinURL(a.baseURL, name+"/"+versionEntry.Name()+"/spec.json")
		}
		if len(versions) > 0 {
			engineMap[name] = versions
		}
	}

	return engineMap, nil
}

// writeDocument encodes a document and writes it under the output tree,
// creating parent directories as needed.
func (a *OutputFileAdapter) writeDocument(path string, doc types.Document) error {
	data, err := encodeDocument(doc, a.fields)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode schema for " + path).
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg("failed to create output directory for " + path).
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg("failed to write " + path).
			WithCause(err)
	}
	return nil
}

// encodeDocument renders a document as indented JSON with a fixed
// top-level key order: $schema first, $id second, remaining keys sorted.
// Nested objects rely on encoding/json's sorted-key output, so the bytes
// are deterministic for structurally equal documents.
func encodeDocument(doc types.Document, fields types.SchemaFields) ([]byte, error) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		if key == fields.Schema || key == fields.ID {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ordered := make([]string, 0, len(doc))
	if _, ok := doc[fields.Schema]; ok {
		ordered = append(ordered, fields.Schema)
	}
	if _, ok := doc[fields.ID]; ok {
		ordered = append(ordered, fields.ID)
	}
	ordered = append(ordered, keys...)

	if len(ordered) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range ordered {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  ")
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteString(": ")
		valueBytes, err := json.MarshalIndent(doc[key], "  ", "  ")
		if err != nil {
			return nil, err
		}
		buf.Write(valueBytes)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

var _ ports.OutputWriter = (*OutputFileAdapter)(nil)
