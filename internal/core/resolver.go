package core

import (
	"errors"
	"path"

	"github.com/rs/zerolog/log"

	"dbschema-spec/internal/ports"
	"dbschema-spec/internal/types"
)

// Resolver turns schema documents into fully dereferenced trees: no $ref
// key remains anywhere in its output. It understands local JSON pointers
// (#/a/b), external files (file.json), and external file plus pointer
// (file.json#/a/b).
//
// A Resolver instance owns a resolution stack (cycle detection) and a file
// cache, both scoped to a single variant's resolution pass. Never share
// one instance across concurrent passes; construct a fresh Resolver per
// variant instead.
type Resolver struct {
	source  ports.DocumentSource
	fields  types.SchemaFields
	variant *types.DatabaseVariant

	// stack holds the in-flight resolution keys in entry order. Pushed on
	// entry to a reference, popped on every exit path.
	stack []string

	// cache maps base-relative file paths to their parsed documents. A
	// snapshot, not a live view: the first read wins for the lifetime of
	// the Resolver.
	cache map[string]types.Document
}

// NewResolver builds a resolver over a document source. variant may be nil
// for variant-agnostic resolution (oneOf blocks then pass through
// untouched).
func NewResolver(source ports.DocumentSource, fields types.SchemaFields, variant *types.DatabaseVariant) *Resolver {
	return &Resolver{
		source:  source,
		fields:  fields,
		variant: variant,
		cache:   make(map[string]types.Document),
	}
}

// ResolveFile loads the document at a base-relative path and resolves
// every reference in it.
//
// A missing root file surfaces the source's not-found error unchanged, and
// a CircularReferenceError propagates unchanged; every other failure is
// wrapped into a ReferenceResolutionError carrying the path.
func (r *Resolver) ResolveFile(filePath string) (types.Document, error) {
	if !r.source.Exists(filePath) {
		_, err := r.source.Load(filePath)
		log.Error().Str("path", filePath).Msg("file not found")
		return nil, err
	}

	doc, err := r.loadCached(filePath)
	if err != nil {
		return nil, &types.ReferenceResolutionError{Ref: filePath, Cause: err}
	}

	resolved, err := r.ResolveReferences(doc, filePath)
	if err != nil {
		var circular *types.CircularReferenceError
		if errors.As(err, &circular) {
			return nil, err
		}
		var refErr *types.ReferenceResolutionError
		if errors.As(err, &refErr) && refErr.Ref == filePath {
			return nil, err
		}
		return nil, &types.ReferenceResolutionError{Ref: filePath, Cause: err}
	}
	return resolved, nil
}

// ResolveReferences recursively resolves every $ref in a document.
// currentFile is the base-relative path of the document making the
// references, or "" when unknown (local pointers then fail, since there is
// no root document to traverse).
func (r *Resolver) ResolveReferences(doc types.Document, currentFile string) (types.Document, error) {
	if doc == nil {
		return nil, nil
	}
	if refValue, ok := doc[r.fields.Ref]; ok {
		if ref, ok := refValue.(string); ok {
			return r.resolveRef(doc, ref, currentFile)
		}
	}
	return r.resolveNested(doc, currentFile)
}

// resolveRef resolves one $ref occurrence: cycle check, target load,
// pointer traversal, variant-aware oneOf collapse, recursive resolution,
// then sibling-key merge.
func (r *Resolver) resolveRef(doc types.Document, ref string, currentFile string) (types.Document, error) {
	filePart, pointer, hasPointer := splitReference(ref)

	// External refs key on the raw ref string; local pointers key on
	// currentFile + ":" + ref so two files sharing a pointer shape do not
	// collide. The schemes are intentionally distinct.
	key := ref
	if filePart == "" {
		if currentFile == "" {
			return nil, &types.ReferenceResolutionError{
				Ref:   ref,
				Cause: errors.New("local pointer requires a current file context"),
			}
		}
		key = currentFile + ":" + ref
	}

	for _, inFlight := range r.stack {
		if inFlight == key {
			chain := append(append([]string{}, r.stack...), key)
			return nil, &types.CircularReferenceError{Chain: chain}
		}
	}

	r.stack = append(r.stack, key)
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
	}()

	var target types.Document
	newCurrentFile := currentFile
	if filePart != "" {
		targetPath := resolveRelativePath(currentFile, filePart)
		loaded, err := r.loadCached(targetPath)
		if err != nil {
			return nil, &types.ReferenceResolutionError{Ref: ref, Cause: err}
		}
		target = loaded
		if hasPointer {
			extracted, err := traversePointer(loaded, pointer)
			if err != nil {
				return nil, &types.ReferenceResolutionError{Ref: ref, Cause: err}
			}
			target = extracted
		}
		newCurrentFile = targetPath
	} else {
		root, err := r.loadCached(currentFile)
		if err != nil {
			return nil, &types.ReferenceResolutionError{Ref: ref, Cause: err}
		}
		extracted, err := traversePointer(root, pointer)
		if err != nil {
			return nil, &types.ReferenceResolutionError{Ref: ref, Cause: err}
		}
		target = extracted
	}

	target, err := r.applyVariantOneOf(target, ref)
	if err != nil {
		return nil, err
	}

	resolved, err := r.ResolveReferences(target, newCurrentFile)
	if err != nil {
		return nil, err
	}

	return mergeRefSiblings(doc, resolved, r.fields.Ref), nil
}

// resolveNested resolves references in every nested mapping or sequence of
// a mapping that itself has no $ref, returning a new mapping.
func (r *Resolver) resolveNested(doc types.Document, currentFile string) (types.Document, error) {
	result := make(types.Document, len(doc))
	for key, value := range doc {
		resolved, err := r.resolveValue(value, currentFile)
		if err != nil {
			return nil, err
		}
		result[key] = resolved
	}
	return result, nil
}

func (r *Resolver) resolveValue(value any, currentFile string) (any, error) {
	switch typed := value.(type) {
	case map[string]any:
		return r.ResolveReferences(typed, currentFile)
	case []any:
		items := make([]any, len(typed))
		for i, item := range typed {
			resolved, err := r.resolveValue(item, currentFile)
			if err != nil {
				return nil, err
			}
			items[i] = resolved
		}
		return items, nil
	default:
		return value, nil
	}
}

// applyVariantOneOf collapses a referenced sub-document's oneOf block to
// the branch matching the bound variant. A block that matches no branch
// passes through unchanged (it may be keyed to other variants); an
// ambiguous match is always fatal.
func (r *Resolver) applyVariantOneOf(doc types.Document, ref string) (types.Document, error) {
	if r.variant == nil {
		return doc, nil
	}
	if _, ok := doc[r.fields.OneOf]; !ok {
		return doc, nil
	}

	merger := NewConditionalMerger(r, r.fields)
	resolved, err := merger.ApplyConditionalLogic(doc, *r.variant)
	if err != nil {
		var noMatch *types.NoMatchingBranchError
		if errors.As(err, &noMatch) {
			log.Debug().
				Str("ref", ref).
				Str("variant", r.variant.String()).
				Msg("oneOf block matches no branch for variant, passing through")
			return doc, nil
		}
		return nil, err
	}
	return resolved, nil
}

// loadCached loads a base-relative path through the per-instance cache.
func (r *Resolver) loadCached(filePath string) (types.Document, error) {
	cleaned := path.Clean(filePath)
	if doc, ok := r.cache[cleaned]; ok {
		return doc, nil
	}
	doc, err := r.source.Load(cleaned)
	if err != nil {
		return nil, err
	}
	r.cache[cleaned] = doc
	log.Debug().Str("path", cleaned).Msg("document loaded")
	return doc, nil
}

// resolveRelativePath resolves a referenced file path against the
// directory of the referencing file; with no referencing file the path is
// taken relative to the base directory as-is.
func resolveRelativePath(currentFile string, refPath string) string {
	if currentFile == "" {
		return path.Clean(refPath)
	}
	return path.Clean(path.Join(path.Dir(currentFile), refPath))
}

// mergeRefSiblings overlays the referencing mapping's non-$ref keys onto
// the resolved target. When both sides hold a mapping under the same key
// the two are merged a single level deep with the sibling winning per key;
// any other collision is overwritten by the sibling outright.
func mergeRefSiblings(doc types.Document, resolved types.Document, refField string) types.Document {
	result := make(types.Document, len(resolved)+len(doc))
	for key, value := range resolved {
		result[key] = value
	}
	for key, value := range doc {
		if key == refField {
			continue
		}
		existing, present := result[key]
		existingMap, existingIsMap := existing.(map[string]any)
		overlayMap, overlayIsMap := value.(map[string]any)
		if present && existingIsMap && overlayIsMap {
			merged := make(map[string]any, len(existingMap)+len(overlayMap))
			for k, v := range existingMap {
				merged[k] = v
			}
			for k, v := range overlayMap {
				merged[k] = v
			}
			result[key] = merged
			continue
		}
		result[key] = value
	}
	return result
}

var _ ports.RefResolver = (*Resolver)(nil)
