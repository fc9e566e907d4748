package query

import (
	"errors"
	"fmt"
)

// Sentinel errors for the parameter parsers. Callers match with errors.Is;
// the wrapped *ParamError carries the offending parameter for field-level messages.
var (
	ErrInvalidFilterField = errors.New("query: filter field not allowed")
	ErrInvalidFilterValue = errors.New("query: malformed filter value")
	ErrInvalidPagination  = errors.New("query: invalid pagination")
)

// ParamError describes a rejected query parameter.
type ParamError struct {
	Param   string
	Message string
	kind    error
}

func newParamError(kind error, param, format string, args ...any) *ParamError {
	return &ParamError{
		Param:   param,
		Message: fmt.Sprintf(format, args...),
		kind:    kind,
	}
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: parameter %q: %s", e.kind, e.Param, e.Message)
}

// Unwrap exposes the sentinel so errors.Is works against the taxonomy.
func (e *ParamError) Unwrap() error {
	return e.kind
}
