package core

import (
	"fmt"
	"strconv"
	"strings"

	"dbschema-spec/internal/types"
)

// splitReference splits a $ref string into its file part and JSON-pointer
// part on the first '#'. An absent or empty file part returns "", and an
// absent fragment returns hasPointer=false. A present-but-empty pointer
// ("file.json#") normalizes to the whole document and is reported as a
// pointer so traversal still runs (and returns the document unchanged).
func splitReference(ref string) (filePart string, pointer string, hasPointer bool) {
	idx := strings.IndexByte(ref, '#')
	if idx < 0 {
		return ref, "", false
	}
	return ref[:idx], ref[idx+1:], true
}

// traversePointer walks a '/'-delimited JSON pointer into a loaded
// document. The empty pointer and "/" alone return the document unchanged.
// The final resolved value must itself be a mapping.
func traversePointer(doc types.Document, pointer string) (types.Document, error) {
	if pointer == "" || pointer == "/" {
		return doc, nil
	}

	var current any = doc
	trimmed := strings.TrimPrefix(pointer, "/")
	for _, segment := range strings.Split(trimmed, "/") {
		key, err := unescapePointerSegment(segment)
		if err != nil {
			return nil, err
		}
		switch container := current.(type) {
		case map[string]any:
			value, ok := container[key]
			if !ok {
				return nil, fmt.Errorf("pointer segment %q not found", key)
			}
			current = value
		case []any:
			index, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("pointer segment %q is not a valid array index", key)
			}
			if index < 0 || index >= len(container) {
				return nil, fmt.Errorf("pointer index %d out of range (length %d)", index, len(container))
			}
			current = container[index]
		default:
			return nil, fmt.Errorf("cannot traverse non-container type at segment %q", key)
		}
	}

	result, ok := current.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pointer %q resolved to non-object type", pointer)
	}
	return result, nil
}

// unescapePointerSegment decodes the ~0/~1 escapes of one pointer segment.
// Escapes are recognized as atomic two-byte sequences in a single pass, so
// "~01" decodes to the literal "~1" rather than double-decoding to "/".
func unescapePointerSegment(segment string) (string, error) {
	if !strings.ContainsRune(segment, '~') {
		return segment, nil
	}
	var b strings.Builder
	b.Grow(len(segment))
	for i := 0; i < len(segment); i++ {
		if segment[i] != '~' {
			b.WriteByte(segment[i])
			continue
		}
		if i+1 >= len(segment) {
			return "", fmt.Errorf("invalid pointer escape at end of segment %q", segment)
		}
		switch segment[i+1] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", fmt.Errorf("invalid pointer escape ~%c in segment %q", segment[i+1], segment)
		}
		i++
	}
	return b.String(), nil
}
