package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types used across the cronik library

var (
	// ErrSyntax indicates a malformed schedule expression
	ErrSyntax = errors.New("syntax error")

	// ErrUnitMismatch indicates that an operator combines different field types
	ErrUnitMismatch = errors.New("unit mismatch")

	// ErrSizeMismatch indicates that branches disagree on their number of fields
	ErrSizeMismatch = errors.New("rule size mismatch")

	// ErrNoMatch indicates that no occurrence exists within the search bounds
	ErrNoMatch = errors.New("no occurrence found")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")
)

// SyntaxError reports a parse failure together with the tokens that were
// left unconsumed when it happened.
type SyntaxError struct {
	Reason    string
	Remaining []string
}

func (e *SyntaxError) Error() string {
	if len(e.Remaining) == 0 {
		return fmt.Sprintf("%s: %s at end of input", ErrSyntax, e.Reason)
	}
	return fmt.Sprintf("%s: %s at %q", ErrSyntax, e.Reason, strings.Join(e.Remaining, " "))
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// UnitMismatchError lists the field types an operator tried to combine.
type UnitMismatchError struct {
	Units []string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnitMismatch, strings.Join(e.Units, ", "))
}

func (e *UnitMismatchError) Unwrap() error { return ErrUnitMismatch }

// SizeMismatchError reports the widths that failed to line up.
type SizeMismatchError struct {
	Where string
	Sizes []int
}

func (e *SizeMismatchError) Error() string {
	sizes := make([]string, len(e.Sizes))
	for i, n := range e.Sizes {
		sizes[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("%s in %s: widths %s", ErrSizeMismatch, e.Where, strings.Join(sizes, ", "))
}

func (e *SizeMismatchError) Unwrap() error { return ErrSizeMismatch }

// ValidationError describes an invalid configuration value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{Module: module, Field: field, Value: value, Reason: reason}
}

// WithHint sets the hint and returns the same instance for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// OperationError wraps a failure of a named operation in a module.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError without context.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{Module: module, Operation: operation, Cause: cause}
}

// WithContext sets the context and returns the same instance for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error { return e.Cause }

// IsCompileError returns true if err was raised while compiling an expression
func IsCompileError(err error) bool {
	return errors.Is(err, ErrSyntax) || errors.Is(err, ErrUnitMismatch) || errors.Is(err, ErrSizeMismatch)
}

// IsNoMatch returns true if err reports an exhausted search
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsValidationError returns true if err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
