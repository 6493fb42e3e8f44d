// Package errors classifies service failures so transports can map them to status codes.
package errors

import (
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	// CategoryGeneralError means the service failed in an unexpected way.
	CategoryGeneralError Category = iota
	// CategoryDataError means the request carried invalid or malformed data.
	CategoryDataError
	// CategoryUnauthorized means the caller could not be authenticated.
	CategoryUnauthorized
	// CategoryResourceNotFound means the addressed resource does not exist.
	CategoryResourceNotFound
	// CategoryDataConflict means the request conflicts with existing data.
	CategoryDataConflict
	// CategoryDependencyFailure means a collaborating module failed.
	CategoryDependencyFailure
)

func (c Category) String() string {
	switch c {
	case CategoryDataError:
		return "CategoryDataError"
	case CategoryUnauthorized:
		return "CategoryUnauthorized"
	case CategoryResourceNotFound:
		return "CategoryResourceNotFound"
	case CategoryDataConflict:
		return "CategoryDataConflict"
	case CategoryDependencyFailure:
		return "CategoryDependencyFailure"
	default:
		return "CategoryGeneralError"
	}
}

// ServiceError carries a category, a caller-facing message and the underlying cause.
// Only Message is ever shown to callers; Err is for logs.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (err *ServiceError) Error() string {
	if err.Err != nil {
		return err.Message + ": " + err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err *ServiceError) Unwrap() error {
	return err.Err
}

// StatusCode returns the HTTP status code for the error category
func (err *ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryDataError:
		return http.StatusBadRequest
	case CategoryUnauthorized:
		return http.StatusUnauthorized
	case CategoryResourceNotFound:
		return http.StatusNotFound
	case CategoryDataConflict:
		return http.StatusConflict
	case CategoryDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

func newError(cat Category, err error, message string) error {
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error".
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "Internal Server Error")
}

// BadRequestError reports invalid input; message is returned to the caller.
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message)
}

// UnAuthorizedError reports a missing or invalid credential.
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, message)
}

// ResourceNotFoundError reports a missing resource.
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, message)
}

// ConflictError reports a clash with existing data.
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, message)
}

// DependencyError reports a failure of a collaborating module.
func DependencyError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, message)
}
