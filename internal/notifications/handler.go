package notifications

import (
	"log/slog"
	"net/http"

	"github.com/hbenali/aeropass/pkg/handlers"
	"github.com/hbenali/aeropass/pkg/routes"
)

// Handler provides HTTP endpoints for the notification feed.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "notifications"),
	}
}

// Routes returns the route group definition for notification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/notifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Feed},
			{Method: "DELETE", Pattern: "/clear-all", Handler: h.ClearAll},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Dismiss},
			{Method: "POST", Pattern: "/acknowledge-new", Handler: h.AcknowledgeNew},
		},
	}
}

// Feed returns the current notification feed with its summary.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.sys.Feed(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, feed)
}

// Dismiss suppresses a single notification by id.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Dismiss(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearAll suppresses every notification in the current feed.
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.ClearAll(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AcknowledgeNew marks all creation events as seen.
func (h *Handler) AcknowledgeNew(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.AcknowledgeNew(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
