package stats

import (
	"log/slog"
	"net/http"

	"github.com/hbenali/aeropass/pkg/handlers"
	"github.com/hbenali/aeropass/pkg/routes"
)

// Handler provides HTTP endpoints for dashboard statistics.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "stats"),
	}
}

// Routes returns the route group definition for stats endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/stats",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Overview},
		},
	}
}

// Overview returns the assembled dashboard payload.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.sys.Overview(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, overview)
}
