package types

import "strings"

// The resolution and validation error kinds below are matched by callers
// with errors.As; the CLI boundary maps each kind to a distinct process
// exit code without inspecting message text.

// ReferenceResolutionError reports a $ref that could not be loaded or
// whose pointer could not be traversed.
type ReferenceResolutionError struct {
	// Ref is the reference string (or root file path) that failed.
	Ref string

	// Cause is the underlying failure, kept for diagnostics.
	Cause error
}

func (e *ReferenceResolutionError) Error() string {
	if e.Cause == nil {
		return "failed to resolve reference '" + e.Ref + "'"
	}
	return "failed to resolve reference '" + e.Ref + "': " + e.Cause.Error()
}

func (e *ReferenceResolutionError) Unwrap() error {
	return e.Cause
}

// CircularReferenceError reports a reference re-entered while still on the
// resolution stack. Chain holds the full in-flight resolution keys ending
// with the offending key.
type CircularReferenceError struct {
	Chain []string
}

func (e *CircularReferenceError) Error() string {
	return "circular reference detected: " + strings.Join(e.Chain, " -> ")
}

// ValidationError reports one or more schema validation failures, either
// structural checks on the assembled document or oneOf condition problems.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "schema validation failed: " + strings.Join(e.Messages, "; ")
}

// NoMatchingBranchError reports a oneOf block with zero branches matching
// the requested variant. Supported lists every (engine, version) pair the
// branch set advertises, so callers can tell an unsupported-variant request
// from a malformed schema.
type NoMatchingBranchError struct {
	Variant   DatabaseVariant
	Supported []string
}

func (e *NoMatchingBranchError) Error() string {
	return "no matching oneOf condition found for " + e.Variant.String() +
		". Supported variants: " + strings.Join(e.Supported, ", ")
}

// AmbiguousBranchError reports a oneOf block with more than one branch
// matching the requested variant. Ambiguity is always fatal; the merger
// never arbitrates ties.
type AmbiguousBranchError struct {
	Variant DatabaseVariant
}

func (e *AmbiguousBranchError) Error() string {
	return "multiple matching conditions found for " + e.Variant.String() +
		". oneOf conditions should be mutually exclusive"
}

// VariantExtractionError reports a malformed registry document or a
// registry that yielded no usable variants.
type VariantExtractionError struct {
	Msg   string
	Cause error
}

func (e *VariantExtractionError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Cause.Error()
}

func (e *VariantExtractionError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports a missing required configuration variable.
type ConfigurationError struct {
	Variable string
}

func (e *ConfigurationError) Error() string {
	return "required configuration variable '" + e.Variable + "' is not set"
}
