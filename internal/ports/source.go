package ports

import "dbschema-spec/internal/types"

// DocumentSource loads schema documents from the docs tree. Paths are
// relative to the source's base directory. Implementations must return an
// independently owned tree per call; callers may retain and cache results.
type DocumentSource interface {
	// Load reads and parses the document at a base-relative path.
	Load(path string) (types.Document, error)

	// Exists reports whether the path names a readable document.
	Exists(path string) bool
}
