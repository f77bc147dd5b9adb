package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrLedgerCorrupted   = NewDomainError("LEDGER_CORRUPTED", "Derived quantity is negative, document graph is inconsistent")
)

// ValidationError is a local, pre-submit failure. It carries enough context
// (document, line index, field) for the operator to correct and resubmit.
// Line is -1 when the error concerns the document header.
type ValidationError struct {
	Document string `json:"document"`
	Line     int    `json:"line"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("%s line %d: %s: %s", e.Document, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Document, e.Field, e.Message)
}

// NewValidationError creates a validation error for a document line field
func NewValidationError(document string, line int, field, message string) *ValidationError {
	return &ValidationError{Document: document, Line: line, Field: field, Message: message}
}

// StateTransitionError signals an attempted status transition that is not
// in the allowed transition table. The attempt has no effect; callers must
// refresh the document status from the store.
type StateTransitionError struct {
	Document string `json:"document"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// Error implements the error interface
func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s: illegal transition %s -> %s", e.Document, e.From, e.To)
}

// NewStateTransitionError creates a state transition error
func NewStateTransitionError(document, from, to string) *StateTransitionError {
	return &StateTransitionError{Document: document, From: from, To: to}
}

// AuthorizationError signals that the actor's role set does not permit the
// attempted edit or transition. No partial edit is applied.
type AuthorizationError struct {
	Document string `json:"document"`
	Action   string `json:"action"`
	Role     string `json:"role"`
}

// Error implements the error interface
func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: role %q is not allowed to %s", e.Document, e.Role, e.Action)
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(document, action, role string) *AuthorizationError {
	return &AuthorizationError{Document: document, Action: action, Role: role}
}

// ConflictError signals that a mutating operation lost an atomic race at the
// store, e.g. a concurrent approval consumed the stock first or an optimistic
// lock check failed. It is surfaced distinctly from StateTransitionError so
// the operator understands stock, not status, was the cause.
type ConflictError struct {
	Resource string `json:"resource"`
	Message  string `json:"message"`
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Message)
}

// NewConflictError creates a conflict error
func NewConflictError(resource, message string) *ConflictError {
	return &ConflictError{Resource: resource, Message: message}
}
