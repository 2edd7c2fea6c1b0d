package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/warden/annex"
)

// Domain errors for document operations.
var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("document already exists")
	ErrSystemNotFound  = errors.New("system not found")
	ErrSectionNotFound = errors.New("document section not found")
	ErrInvalidStatus   = errors.New("invalid document status")
	ErrInvalidInput    = errors.New("invalid document edit")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSystemNotFound) || errors.Is(err, ErrSectionNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrInvalidInput) || errors.Is(err, annex.ErrUnknownFormat) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
