package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint would be violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden indicates the caller may not touch the entity.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries a user-facing message for input rejected before any state change.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrOutOfStock is returned when a requested quantity exceeds the product stock.
var ErrOutOfStock = &ValidationError{Message: "Sorry, this product is out of stock"}

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
