// Package errors defines the error taxonomy shared by the variable
// formatting packages.
//
// Configuration errors are author-facing and raised while a placeholder is
// compiled. Lookup and eval errors are raised while a placeholder is
// rendered and always propagate to the caller. Formatting leniency never
// produces an error at all.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeLookup   ErrorType = "lookup"
	ErrorTypeEval     ErrorType = "eval"
	ErrorTypeInternal ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeUnrecognizedParameter = "unrecognized_parameter"
	ErrCodeMissingIdentifier     = "missing_identifier"
	ErrCodeDuplicateIdentifier   = "duplicate_identifier"
	ErrCodeInvalidSize           = "invalid_size"
	ErrCodeInvalidBaseFormat     = "invalid_base_format"
	ErrCodeInvalidExpression     = "invalid_expression"
	ErrCodeInvalidRegistry       = "invalid_registry"
	ErrCodeMalformedTag          = "malformed_tag"
	ErrCodeNameNotFound          = "name_not_found"
	ErrCodeExpressionFailed      = "expression_failed"
)

// Sentinels for errors.Is. Matching compares Type and Code only.
var (
	ErrUnrecognizedParameter = &VarError{Type: ErrorTypeConfig, Code: ErrCodeUnrecognizedParameter}
	ErrMissingIdentifier     = &VarError{Type: ErrorTypeConfig, Code: ErrCodeMissingIdentifier}
	ErrDuplicateIdentifier   = &VarError{Type: ErrorTypeConfig, Code: ErrCodeDuplicateIdentifier}
	ErrInvalidSize           = &VarError{Type: ErrorTypeConfig, Code: ErrCodeInvalidSize}
	ErrInvalidBaseFormat     = &VarError{Type: ErrorTypeConfig, Code: ErrCodeInvalidBaseFormat}
	ErrInvalidExpression     = &VarError{Type: ErrorTypeConfig, Code: ErrCodeInvalidExpression}
	ErrInvalidRegistry       = &VarError{Type: ErrorTypeConfig, Code: ErrCodeInvalidRegistry}
	ErrMalformedTag          = &VarError{Type: ErrorTypeConfig, Code: ErrCodeMalformedTag}
	ErrNameNotFound          = &VarError{Type: ErrorTypeLookup, Code: ErrCodeNameNotFound}
	ErrExpressionFailed      = &VarError{Type: ErrorTypeEval, Code: ErrCodeExpressionFailed}
)

// VarError is a structured error type with context.
type VarError struct {
	Type    ErrorType
	Code    string
	Message string
	// Param is the parameter, variable name or expression the error is about.
	Param   string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *VarError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Param != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Param))
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *VarError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *VarError) Is(target error) bool {
	var t *VarError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *VarError) WithContext(key string, value interface{}) *VarError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithCause attaches the underlying error.
func (e *VarError) WithCause(cause error) *VarError {
	e.Cause = cause

	return e
}

// Error creation functions

// NewConfigurationError creates an author-facing configuration error.
func NewConfigurationError(code, param, message string) *VarError {
	return &VarError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Param:   param,
		Message: message,
	}
}

// NewLookupError creates an error for a name missing from the render context.
func NewLookupError(name string) *VarError {
	return &VarError{
		Type:    ErrorTypeLookup,
		Code:    ErrCodeNameNotFound,
		Param:   name,
		Message: "name not found in render context",
	}
}

// NewEvalError creates an expression evaluation error.
func NewEvalError(source, message string, cause error) *VarError {
	return &VarError{
		Type:    ErrorTypeEval,
		Code:    ErrCodeExpressionFailed,
		Param:   source,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *VarError {
	return &VarError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigurationError checks if an error is a configuration error.
func IsConfigurationError(err error) bool {
	return hasType(err, ErrorTypeConfig)
}

// IsLookupError checks if an error is a context lookup error.
func IsLookupError(err error) bool {
	return hasType(err, ErrorTypeLookup)
}

// IsEvalError checks if an error came from expression evaluation.
func IsEvalError(err error) bool {
	return hasType(err, ErrorTypeEval)
}

// IsRuntimeError reports whether err aborts a render rather than a compile.
func IsRuntimeError(err error) bool {
	return IsLookupError(err) || IsEvalError(err)
}

func hasType(err error, t ErrorType) bool {
	var ve *VarError
	if errors.As(err, &ve) {
		return ve.Type == t
	}

	return false
}
