package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbschema-spec/internal/types"
)

func TestSplitReference(t *testing.T) {
	cases := []struct {
		ref        string
		filePart   string
		pointer    string
		hasPointer bool
	}{
		{"file.json", "file.json", "", false},
		{"#/a/b", "", "/a/b", true},
		{"file.json#/a/b", "file.json", "/a/b", true},
		{"file.json#", "file.json", "", true},
		{"file.json#/", "file.json", "/", true},
	}
	for _, tc := range cases {
		t.Run(tc.ref, func(t *testing.T) {
			filePart, pointer, hasPointer := splitReference(tc.ref)
			require.Equal(t, tc.filePart, filePart)
			require.Equal(t, tc.pointer, pointer)
			require.Equal(t, tc.hasPointer, hasPointer)
		})
	}
}

func TestTraversePointerWholeDocument(t *testing.T) {
	doc := types.Document{"a": "b"}
	for _, pointer := range []string{"", "/"} {
		result, err := traversePointer(doc, pointer)
		require.NoError(t, err)
		require.Equal(t, doc, result)
	}
}

func TestTraversePointerNestedAndArray(t *testing.T) {
	doc := types.Document{
		"defs": map[string]any{
			"list": []any{
				map[string]any{"name": "first"},
				map[string]any{"name": "second"},
			},
		},
	}
	result, err := traversePointer(doc, "/defs/list/1")
	require.NoError(t, err)
	require.Equal(t, "second", result["name"])
}

func TestTraversePointerEscapes(t *testing.T) {
	doc := types.Document{
		"defs": map[string]any{
			"a/b": map[string]any{"kind": "slash"},
			"a~b": map[string]any{"kind": "tilde"},
		},
	}

	slash, err := traversePointer(doc, "/defs/a~1b")
	require.NoError(t, err)
	require.Equal(t, "slash", slash["kind"])

	tilde, err := traversePointer(doc, "/defs/a~0b")
	require.NoError(t, err)
	require.Equal(t, "tilde", tilde["kind"])

	// The literal forms do not reach the escaped keys.
	_, err = traversePointer(doc, "/defs/a/b")
	require.Error(t, err)
}

func TestUnescapePointerSegmentAtomicEscapes(t *testing.T) {
	// ~01 must decode to the literal "~1", never double-decode to "/".
	decoded, err := unescapePointerSegment("a~01b")
	require.NoError(t, err)
	require.Equal(t, "a~1b", decoded)

	decoded, err = unescapePointerSegment("~1~0")
	require.NoError(t, err)
	require.Equal(t, "/~", decoded)
}

func TestUnescapePointerSegmentInvalidEscape(t *testing.T) {
	_, err := unescapePointerSegment("bad~2escape")
	require.Error(t, err)
	_, err = unescapePointerSegment("trailing~")
	require.Error(t, err)
}

func TestTraversePointerFailures(t *testing.T) {
	doc := types.Document{
		"scalar": "value",
		"list":   []any{"a"},
		"nested": map[string]any{"leaf": 42},
	}

	cases := []struct {
		name    string
		pointer string
	}{
		{"missing key", "/absent"},
		{"non-numeric index", "/list/x"},
		{"index out of range", "/list/5"},
		{"traverse into scalar", "/scalar/deeper"},
		{"resolves to scalar", "/nested/leaf"},
		{"resolves to array", "/list"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := traversePointer(doc, tc.pointer)
			require.Error(t, err)
		})
	}
}
