package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context, creating a VarError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *VarError {
	if err == nil {
		return nil
	}

	var ve *VarError
	if errors.As(err, &ve) {
		return &VarError{
			Type:    errType,
			Code:    code,
			Message: message,
			Param:   ve.Param,
			Cause:   ve,
			Context: ve.Context,
		}
	}

	return &VarError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WithOffset records the byte offset of the placeholder that produced err.
func WithOffset(err error, offset int) error {
	if err == nil {
		return nil
	}

	var ve *VarError
	if errors.As(err, &ve) {
		ve.WithContext("offset", offset)
		return err
	}

	return fmt.Errorf("at offset %d: %w", offset, err)
}

// GetErrorContext extracts context information from a VarError
func GetErrorContext(err error) map[string]interface{} {
	var ve *VarError
	if errors.As(err, &ve) {
		context := make(map[string]interface{})
		for k, v := range ve.Context {
			context[k] = v
		}
		if ve.Param != "" {
			context["param"] = ve.Param
		}
		context["type"] = string(ve.Type)
		context["code"] = ve.Code
		return context
	}

	return map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}
}

// CollectErrors helper for common error collection patterns
func CollectErrors(errs ...error) []error {
	var collected []error
	for _, err := range errs {
		if err != nil {
			collected = append(collected, err)
		}
	}
	return collected
}

// CombineErrors joins multiple errors. A single error is returned as is so
// that its type survives; several are joined with errors.Join so errors.Is
// and errors.As still see every member.
func CombineErrors(errs ...error) error {
	nonNilErrs := CollectErrors(errs...)
	if len(nonNilErrs) == 0 {
		return nil
	}
	if len(nonNilErrs) == 1 {
		return nonNilErrs[0]
	}

	return errors.Join(nonNilErrs...)
}
