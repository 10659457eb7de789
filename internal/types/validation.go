package types

// ValidationResult collects the outcome of validating one schema document.
// Errors mark the result invalid; warnings do not.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

// AddError appends a validation error and flips the result to invalid.
func (r *ValidationResult) AddError(message string) {
	r.Errors = append(r.Errors, message)
	r.IsValid = false
}

// AddWarning appends a validation warning.
func (r *ValidationResult) AddWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}
