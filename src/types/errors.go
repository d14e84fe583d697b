package types

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	ErrValidation       ErrorKind = "validation"
	ErrUnauthenticated  ErrorKind = "unauthenticated"
	ErrForbidden        ErrorKind = "forbidden"
	ErrNotFound         ErrorKind = "not_found"
	ErrConflict         ErrorKind = "conflict"
	ErrSoldOut          ErrorKind = "sold_out"
	ErrInvalidInventory ErrorKind = "invalid_inventory"
	ErrInternal         ErrorKind = "internal"
)

// APIError is the single error shape every controller yields. The kind is
// mapped to an HTTP status exactly once, at the response boundary.
type APIError struct {
	Kind    ErrorKind
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Status() int {
	switch e.Kind {
	case ErrValidation, ErrSoldOut, ErrInvalidInventory:
		return http.StatusBadRequest
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewAPIError(kind ErrorKind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

// AsAPIError normalizes any error into an APIError, defaulting unknown
// failures to Internal with a generic message so store errors never leak.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: ErrInternal, Message: "Error interno del servidor"}
}
