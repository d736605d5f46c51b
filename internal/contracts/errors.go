package contracts

import (
	"errors"
	"net/http"

	"github.com/hbenali/aeropass/internal/badges"
)

// Domain errors for contract operations.
var (
	ErrNotFound     = errors.New("contract not found")
	ErrNotPDF       = errors.New("contract must be a PDF")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
)

// MapHTTPStatus maps contract domain errors to appropriate HTTP status codes.
// Badge lookup errors pass through the badge domain mapping.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNotPDF) || errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, badges.ErrNotFound) || errors.Is(err, badges.ErrInvalidType) {
		return badges.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}
