package domain

// ValidationError rejects caller input before any side effect takes place.
// Handlers map it to a 400 response carrying the message verbatim.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string { return e.msg }
