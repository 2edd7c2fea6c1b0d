package systems

import (
	"errors"
	"net/http"
)

// Domain errors for system registry operations.
var (
	ErrNotFound      = errors.New("system not found")
	ErrDuplicate     = errors.New("system name already registered for owner")
	ErrInvalidInput  = errors.New("invalid system")
	ErrInvalidStatus = errors.New("invalid compliance status")
)

// MapHTTPStatus maps system domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
