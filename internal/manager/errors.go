package manager

import "errors"

// invalidInputError signals a request the service cannot process (return 400).
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string { return e.msg }

// ErrInvalidInput constructs an invalidInputError.
func ErrInvalidInput(msg string) error { return invalidInputError{msg: msg} }

// IsInvalidInput reports whether err indicates invalid client input.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e)
}

// notFoundError is returned when a referenced entity (an exam) does not exist.
type notFoundError struct{ what string }

func (e notFoundError) Error() string { return "not found: " + e.what }

func ErrNotFound(what string) error { return notFoundError{what: what} }

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	var e notFoundError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a missing external dependency (e.g., llama.cpp,
// a database, a model runtime) so the HTTP layer can return 503 instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}
