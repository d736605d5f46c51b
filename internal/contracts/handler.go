package contracts

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hbenali/aeropass/internal/badges"
	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/handlers"
	"github.com/hbenali/aeropass/pkg/routes"
)

// Handler provides HTTP endpoints for contract operations, nested under the
// badge resource path.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "contracts"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for contract endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/badges/{type}/{badgeNum}/contract",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "GET", Pattern: "", Handler: h.Download},
			{Method: "DELETE", Pattern: "", Handler: h.Delete},
			{Method: "GET", Pattern: "/exists", Handler: h.Exists},
		},
	}
}

// Upload attaches a PDF contract to a badge via multipart form upload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, badges.ErrInvalidType)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	cmd := UploadCommand{Data: data, Filename: header.Filename}

	receipt, err := h.sys.Upload(r.Context(), typ, r.PathValue("badgeNum"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, receipt)
}

// Download streams the contract PDF back to the client.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, badges.ErrInvalidType)
		return
	}

	reader, filename, err := h.sys.Download(r.Context(), typ, r.PathValue("badgeNum"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("contract stream interrupted", "error", err)
	}
}

// Delete removes the contract from a badge.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, badges.ErrInvalidType)
		return
	}

	if err := h.sys.Delete(r.Context(), typ, r.PathValue("badgeNum")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Exists reports whether a badge carries a contract.
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, badges.ErrInvalidType)
		return
	}

	exists, err := h.sys.Exists(r.Context(), typ, r.PathValue("badgeNum"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}
