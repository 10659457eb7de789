package types

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// DatabaseVariant identifies one (engine, version) combination the system
// generates a unified schema for. Construct via NewDatabaseVariant so the
// character rules are enforced; a zero value is not a valid variant.
type DatabaseVariant struct {
	// Engine is the database engine name, e.g. "PostgreSQL".
	Engine string

	// Version is the engine version label, e.g. "v15.0". Treated as an
	// opaque matching key, not an ordered version.
	Version string

	// EngineSpecPath optionally points at the engine-specific spec file.
	EngineSpecPath string
}

// NewDatabaseVariant validates and builds a DatabaseVariant.
//
// Engine must be non-empty and contain only alphanumerics, hyphens,
// underscores, and spaces. Version must be non-empty and contain only
// alphanumerics, dots, hyphens, and underscores. Invalid input fails;
// nothing is silently coerced.
func NewDatabaseVariant(engine string, version string) (DatabaseVariant, error) {
	if engine == "" {
		return DatabaseVariant{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("engine name must not be empty")
	}
	if version == "" {
		return DatabaseVariant{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version must not be empty")
	}
	if !validIdentifier(engine, " -_") {
		return DatabaseVariant{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("engine name must contain only alphanumeric characters, hyphens, underscores, and spaces: " + engine)
	}
	if !validIdentifier(version, ".-_") {
		return DatabaseVariant{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version must contain only alphanumeric characters, dots, hyphens, and underscores: " + version)
	}
	return DatabaseVariant{Engine: engine, Version: version}, nil
}

// String renders the variant as "Engine Version", the form used in logs
// and in oneOf mismatch diagnostics.
func (v DatabaseVariant) String() string {
	return v.Engine + " " + v.Version
}

// OutputPath returns the per-variant output directory, "engine/version"
// with the engine name lower-cased regardless of registry casing.
func (v DatabaseVariant) OutputPath() string {
	return strings.ToLower(v.Engine) + "/" + v.Version
}

// validIdentifier reports whether value consists solely of alphanumerics
// plus the given extra characters.
func validIdentifier(value string, extra string) bool {
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case strings.ContainsRune(extra, r):
		default:
			return false
		}
	}
	return true
}
