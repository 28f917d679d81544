package types

import "fmt"

// Error codes used in CLIError.
const (
	CodeMalformedStore = "malformed_store"
	CodeIntegrity      = "integrity"
	CodeValidation     = "validation"
	CodeNotFound       = "not_found"
	CodeConfig         = "config"
	CodeInternal       = "internal"
)

// CLIError provides structured error information for --json output
type CLIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *CLIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCLIError creates a new structured CLI error
func NewCLIError(code string, message string, details map[string]any) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
