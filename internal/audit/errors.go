package audit

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("audit entry not found")
	ErrClosed       = errors.New("audit queue closed")
	ErrInvalidRange = errors.New("invalid time range")
)

// MapHTTPStatus maps audit errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
