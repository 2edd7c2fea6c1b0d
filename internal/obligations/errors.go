package obligations

import (
	"errors"
	"net/http"
)

// Domain errors for obligation tracking.
var (
	ErrNotFound       = errors.New("obligation not found")
	ErrDuplicate      = errors.New("obligation already tracked for system")
	ErrSystemNotFound = errors.New("system not found")
	ErrInvalidStatus  = errors.New("invalid obligation status")
	ErrInvalidInput   = errors.New("invalid obligation update")
)

// MapHTTPStatus maps obligation domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSystemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
