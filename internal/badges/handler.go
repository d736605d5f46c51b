package badges

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/handlers"
	"github.com/hbenali/aeropass/pkg/pagination"
	"github.com/hbenali/aeropass/pkg/routes"
)

// Handler provides HTTP endpoints for badge operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "badges"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for badge endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/badges",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.ListAll},
			{Method: "GET", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/any/{badgeNum}", Handler: h.FindAny},
			{Method: "GET", Pattern: "/{type}", Handler: h.List},
			{Method: "POST", Pattern: "/{type}", Handler: h.Create},
			{Method: "GET", Pattern: "/{type}/count", Handler: h.Count},
			{Method: "GET", Pattern: "/{type}/{badgeNum}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{type}/{badgeNum}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{type}/{badgeNum}", Handler: h.Delete},
		},
	}
}

// ListAll returns every badge across all three lifecycles with derived status.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	views, err := h.sys.ListAll(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, views)
}

// List returns a paginated list of badges of one lifecycle with optional
// query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidType)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), typ, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single badge by lifecycle and badge number.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidType)
		return
	}

	view, err := h.sys.Find(r.Context(), typ, r.PathValue("badgeNum"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// FindAny looks a badge number up across all three lifecycles.
func (h *Handler) FindAny(w http.ResponseWriter, r *http.Request) {
	view, err := h.sys.FindAny(r.Context(), r.PathValue("badgeNum"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Search matches a term against badge number, name, company, and national ID
// across all lifecycles.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("query")
	if term == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBadge)
		return
	}

	views, err := h.sys.Search(r.Context(), term)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, views)
}

// Count returns the number of badges in one lifecycle.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidType)
		return
	}

	total, err := h.sys.Count(r.Context(), typ)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"type": typ, "count": total})
}

// Create registers a new badge. The payload is normalized before storage, so
// legacy envelope shapes and camelCase field names are accepted.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidType)
		return
	}

	raw, rec, err := decodeRecord(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBadge)
		return
	}
	rec.Type = typ

	if rec.BadgeNum == "" || rec.BadgeNum == "N/A" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBadge)
		return
	}

	cmd := CreateCommand{Record: rec, AddedBy: addedBy(raw)}

	view, err := h.sys.Create(r.Context(), typ, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, view)
}

// Update replaces a badge's mutable fields. Badge number and lifecycle are
// immutable and taken from the path.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidType)
		return
	}

	_, rec, err := decodeRecord(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBadge)
		return
	}
	rec.Type = typ
	rec.BadgeNum = r.PathValue("badgeNum")

	view, err := h.sys.Update(r.Context(), typ, r.PathValue("badgeNum"), UpdateCommand{Record: rec})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Delete removes a badge and its contract, if any.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	typ, ok := badge.ParseType(r.PathValue("type"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidType)
		return
	}

	if err := h.sys.Delete(r.Context(), typ, r.PathValue("badgeNum")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeRecord(r *http.Request) (map[string]any, badge.Record, error) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, badge.Record{}, err
	}
	return raw, badge.Normalize(raw), nil
}

func addedBy(raw map[string]any) string {
	if v, ok := raw["added_by"].(string); ok && v != "" {
		return v
	}
	return "system"
}
