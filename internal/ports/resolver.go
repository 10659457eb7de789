package ports

import "dbschema-spec/internal/types"

// RefResolver is the capability the conditional merger needs to resolve a
// reference subtree (a `then` clause carrying a $ref). It is deliberately a
// single-method contract so the merger never depends on a concrete
// resolver type.
type RefResolver interface {
	// ResolveReferences returns a new document with every $ref in the
	// given document recursively resolved. currentFile is the
	// base-relative path of the document making the reference, or ""
	// when unknown.
	ResolveReferences(doc types.Document, currentFile string) (types.Document, error)
}
