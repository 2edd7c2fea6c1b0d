package conformity

import (
	"errors"
	"net/http"
)

// Domain errors for conformity assessments.
var (
	ErrNotFound            = errors.New("assessment not found")
	ErrDuplicate           = errors.New("assessment already exists")
	ErrSystemNotFound      = errors.New("system not found")
	ErrRequirementNotFound = errors.New("requirement not found")
	ErrInvalidStatus       = errors.New("invalid requirement status")
	ErrInvalidInput        = errors.New("invalid assessment request")
)

// MapHTTPStatus maps conformity domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrSystemNotFound),
		errors.Is(err, ErrRequirementNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
