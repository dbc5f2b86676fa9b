package services

import (
	"errors"
	"fmt"
	"strings"
)

// Operation-scoped failures surfaced to the HTTP layer. Transport failures
// are deliberately absent: a failed email never aborts a committed write.
var (
	ErrForbidden = errors.New("insufficient permissions")
	ErrNotFound  = errors.New("submission not found")
)

// InvalidInputError lists the missing or malformed fields of a request.
type InvalidInputError struct {
	Fields []string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", strings.Join(e.Fields, ", "))
}

func newInvalidInput(fields ...string) *InvalidInputError {
	return &InvalidInputError{Fields: fields}
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}
