package engine

import "fmt"

// Code is a machine-readable resolution failure code.
type Code string

const (
	CodeNoStaff   Code = "NO_STAFF"
	CodeNoRooms   Code = "NO_ROOMS"
	CodeNonFinite Code = "NON_FINITE"
)

// DomainError reports a state/decision combination the model cannot resolve.
type DomainError struct {
	Code    Code
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrNoStaff   = &DomainError{Code: CodeNoStaff, Message: "no staff on duty"}
	ErrNoRooms   = &DomainError{Code: CodeNoRooms, Message: "hotel has no rooms"}
	ErrNonFinite = &DomainError{Code: CodeNonFinite, Message: "non-finite result"}
)
