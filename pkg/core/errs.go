package core

import "fmt"

// Error codes surfaced to users as non-fatal rejections
const (
	CodeDuplicateAlert  = "DUPLICATE_ALERT"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidGeometry = "INVALID_GEOMETRY"
	CodeUnresolvable    = "UNRESOLVABLE"
	CodeValidation      = "VALIDATION"
)

// CodedError is a typed error used for stable mapping of rejected user actions
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

// Is matches another CodedError with the same code
func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	return ok && t.Code == e.Code && t.Message == ""
}

// NewError builds a CodedError
func NewError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

var (
	ErrDuplicateAlert  = &CodedError{Code: CodeDuplicateAlert}
	ErrNotFound        = &CodedError{Code: CodeNotFound}
	ErrInvalidGeometry = &CodedError{Code: CodeInvalidGeometry}
	ErrUnresolvable    = &CodedError{Code: CodeUnresolvable}
	ErrValidation      = &CodedError{Code: CodeValidation}
)
