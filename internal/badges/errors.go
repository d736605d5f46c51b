package badges

import (
	"errors"
	"net/http"
)

// Domain errors for badge operations.
var (
	ErrNotFound     = errors.New("badge not found")
	ErrDuplicate    = errors.New("badge already exists")
	ErrInvalidType  = errors.New("invalid badge type")
	ErrInvalidBadge = errors.New("invalid badge payload")
)

// MapHTTPStatus maps badge domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidType) || errors.Is(err, ErrInvalidBadge) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
