package samples

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fcc-hep/samplecat/pkg/handlers"
	"github.com/fcc-hep/samplecat/pkg/pagination"
	"github.com/fcc-hep/samplecat/pkg/routes"
)

// Provider yields the current merged database to presenters. Implementations
// decide the rebuild policy; the default policy merges before every read.
type Provider interface {
	Database(ctx context.Context) (*Database, error)
	Refresh(ctx context.Context) (*Database, Stats, error)
}

// TableResponse is the JSON shape of the rendered sample table.
type TableResponse struct {
	LastUpdate string `json:"last_update"`
	Rows       []Row  `json:"rows"`
	Visible    int    `json:"visible"`
}

// RefreshResponse reports the outcome of a forced merge.
type RefreshResponse struct {
	LastUpdate string `json:"last_update"`
	Stats      Stats  `json:"stats"`
}

// Handler provides the JSON API for sample data. The store is optional; when
// PostgreSQL is disabled every endpoint serves from the merged document.
type Handler struct {
	provider   Provider
	store      Store
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler. store may be nil.
func NewHandler(provider Provider, store Store, logger *slog.Logger, pg pagination.Config) *Handler {
	return &Handler{
		provider:   provider,
		store:      store,
		logger:     logger.With("handler", "samples"),
		pagination: pg,
	}
}

// Routes returns the route group for sample endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/samples",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/refresh", Handler: h.Refresh},
		},
	}
}

// List returns the rendered table. With a q parameter the rows carry filter
// visibility flags; with PostgreSQL enabled and paging parameters present the
// listing is served from the database instead.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	if h.store != nil && (values.Get("page") != "" || values.Get("page_size") != "") {
		page := pagination.PageRequestFromQuery(values, h.pagination)
		filters := FiltersFromQuery(values)

		result, err := h.store.List(r.Context(), page, filters)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, result)
		return
	}

	db, err := h.provider.Database(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	rows, lastUpdate := Render(db)
	if q := values.Get("q"); q != "" {
		rows = Filter(rows, q)
	}

	handlers.RespondJSON(w, http.StatusOK, TableResponse{
		LastUpdate: lastUpdate,
		Rows:       rows,
		Visible:    Visible(rows),
	})
}

// Find returns one merged record by sample ID.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	db, err := h.provider.Database(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	rec, ok := db.Samples.Get(id)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]Record{id: rec})
}

// Refresh forces a merge pass and reports the dropped-override diagnostics.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	db, stats, err := h.provider.Refresh(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if h.store != nil {
		if _, err := h.store.Import(r.Context(), db); err != nil {
			h.logger.Warn("sample import failed after refresh", "error", err)
		}
	}

	handlers.RespondJSON(w, http.StatusOK, RefreshResponse{
		LastUpdate: db.LastUpdate,
		Stats:      stats,
	})
}
