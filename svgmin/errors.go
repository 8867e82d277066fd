package svgmin

import "fmt"

// EmptyInputError is reported when there is no document to optimize.
type EmptyInputError struct{}

func (EmptyInputError) Error() string {
	return "svgmin: empty input"
}

// CollaboratorError wraps a failure of the generic optimizer. The
// document is returned as it was before the optimizer ran.
type CollaboratorError struct {
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("svgmin: optimizer failed: %v", e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
