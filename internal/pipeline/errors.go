package pipeline

import (
	"fmt"
)

// ErrorType represents the type of stage error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeMissingInput ErrorType = "missing_input"
)

// StageError is a run error attributed to one stage
type StageError struct {
	Type    ErrorType              `json:"type"`
	Stage   string                 `json:"stage,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"cause,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e == nil {
		return "unknown stage error"
	}
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(stage, message string) *StageError {
	return &StageError{
		Type:    ErrorTypeValidation,
		Stage:   stage,
		Message: message,
	}
}

// NewExecutionError creates a new execution error
func NewExecutionError(stage string, cause error) *StageError {
	return &StageError{
		Type:    ErrorTypeExecution,
		Stage:   stage,
		Message: "stage execution failed",
		Cause:   cause,
	}
}

// NewCancellationError creates a new cancellation error
func NewCancellationError(stage string) *StageError {
	return &StageError{
		Type:    ErrorTypeCancellation,
		Stage:   stage,
		Message: "run cancelled",
	}
}

// NewMissingInputError reports a stage whose input table never arrived
func NewMissingInputError(stage, table string) *StageError {
	return &StageError{
		Type:    ErrorTypeMissingInput,
		Stage:   stage,
		Message: fmt.Sprintf("required table %q not loaded", table),
		Context: map[string]interface{}{"table": table},
	}
}
