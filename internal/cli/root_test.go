package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"

	"dbschema-spec/internal/types"
)

func TestExitCodeForError(t *testing.T) {
	notFound := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("schema file not found: specs.json")
	variant, err := types.NewDatabaseVariant("PostgreSQL", "v15.0")
	require.NoError(t, err)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "missing file",
			err:  notFound,
			want: exitFileNotFound,
		},
		{
			name: "unparseable schema",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse JSON schema file"),
			want: exitInvalidSchema,
		},
		{
			name: "unresolvable reference",
			err:  &types.ReferenceResolutionError{Ref: "missing.json", Cause: notFound},
			want: exitInvalidSchema,
		},
		{
			name: "registry extraction failure",
			err:  &types.VariantExtractionError{Msg: "invalid oneOf structure in database.json"},
			want: exitInvalidSchema,
		},
		{
			name: "missing base url",
			err:  &types.ConfigurationError{Variable: "BASE_URL"},
			want: exitInvalidSchema,
		},
		{
			name: "circular reference",
			err:  &types.CircularReferenceError{Chain: []string{"a.json", "b.json", "a.json"}},
			want: exitCircularReference,
		},
		{
			name: "wrapped circular reference outranks resolution wrapper",
			err: &types.ReferenceResolutionError{
				Ref:   "specs.json",
				Cause: &types.CircularReferenceError{Chain: []string{"a.json", "a.json"}},
			},
			want: exitCircularReference,
		},
		{
			name: "validation failure",
			err:  &types.ValidationError{Messages: []string{"Missing 'properties' field"}},
			want: exitValidationFailed,
		},
		{
			name: "no matching branch",
			err:  &types.NoMatchingBranchError{Variant: variant},
			want: exitValidationFailed,
		},
		{
			name: "ambiguous branch",
			err:  &types.AmbiguousBranchError{Variant: variant},
			want: exitValidationFailed,
		},
		{
			name: "write failure",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("failed to write output"),
			want: exitFileSystem,
		},
		{
			name: "unclassified error",
			err:  errors.New("boom"),
			want: exitFileSystem,
		},
		{
			name: "fmt-wrapped typed error",
			err:  fmt.Errorf("generate: %w", &types.ValidationError{Messages: []string{"bad"}}),
			want: exitValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, exitCodeForError(tt.err))
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	require.Contains(t, names, "generate")
	require.Contains(t, names, "variants")
	require.Contains(t, names, "resolve")
	require.Contains(t, names, "validate")
}
