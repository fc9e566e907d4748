package viewset

import "errors"

var (
	// ErrNotFound reports a missing record. Dataset implementations return it
	// (or wrap it) so the facade can surface a 404-equivalent.
	ErrNotFound = errors.New("viewset: record not found")

	// ErrMethodNotAllowed reports an operation excluded by Options.AllowedMethods.
	ErrMethodNotAllowed = errors.New("viewset: method not allowed")

	// ErrFieldNotUpdatable reports an update touching a field outside
	// Options.AllowedUpdateFields.
	ErrFieldNotUpdatable = errors.New("viewset: field not allowed for update")

	// ErrInvalidBody reports a request body that does not decode.
	ErrInvalidBody = errors.New("viewset: invalid request body")
)
