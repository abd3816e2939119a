package handler

import (
	merrors "go-micro.dev/v5/errors"

	"clientgraph/store"
)

const serviceName = "clientgraph"

// Error carries a go-micro error to GraphQL clients. Its detail becomes
// the message and its code and status are reported as extensions.
type Error struct {
	coded *merrors.Error
	cause error
}

func (e *Error) Error() string {
	return e.coded.Detail
}

// Code returns the HTTP-style status code of the error.
func (e *Error) Code() int32 {
	return e.coded.Code
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Extensions implements gqlerrors.ExtendedError.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"id":     e.coded.Id,
		"code":   e.coded.Code,
		"status": e.coded.Status,
	}
}

func apiError(op string, err error) error {
	id := serviceName + "." + op
	var coded error
	switch {
	case store.IsNotFound(err):
		coded = merrors.NotFound(id, "%v", err)
	case store.IsConstraintError(err):
		coded = merrors.Conflict(id, "%v", err)
	default:
		coded = merrors.InternalServerError(id, "%v", err)
	}
	return &Error{coded: merrors.FromError(coded), cause: err}
}
