package classifications

import (
	"errors"
	"net/http"
)

// Domain errors for classification operations.
var (
	ErrNotFound         = errors.New("classification not found")
	ErrDuplicate        = errors.New("classification already exists")
	ErrSystemNotFound   = errors.New("system not found")
	ErrAlreadyValidated = errors.New("classification already validated")
	ErrInvalidInput     = errors.New("invalid classification request")
)

// MapHTTPStatus maps classification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSystemNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrAlreadyValidated) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
