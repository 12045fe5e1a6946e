// Package site serves the HTML catalog pages: the sample table with its
// client-side filter, and the legacy per-campaign flat-file tables.
package site

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fcc-hep/samplecat/internal/samples"
	"github.com/fcc-hep/samplecat/pkg/middleware"
	"github.com/fcc-hep/samplecat/pkg/web"
)

//go:embed layouts/*.html views/*.html static/*
var siteFS embed.FS

var views = []web.ViewDef{
	{Route: "/{$}", Template: "index.html", Title: "Sample Catalog"},
	{Route: "/samples", Template: "samples.html", Title: "Samples"},
	{Route: "/legacy/{campaign}", Template: "legacy.html", Title: "Legacy Campaign"},
}

// SamplesPage is the template data for the merged sample table.
type SamplesPage struct {
	LastUpdate string
	Rows       []samples.Row
	Query      string
	Visible    int
}

// LegacyPage is the template data for a legacy campaign table.
type LegacyPage struct {
	Campaign string
	Columns  []string
	Rows     []samples.Row
}

// IndexPage is the template data for the landing page.
type IndexPage struct {
	Campaigns []string
}

// Site renders the catalog pages.
type Site struct {
	templates *web.TemplateSet
	provider  samples.Provider
	legacyDir string
	logger    *slog.Logger
}

// NewHandler builds the site handler. It is intended to be registered as the
// router's fallback so pages live at the site root.
func NewHandler(provider samples.Provider, legacyDir string, logger *slog.Logger) (http.Handler, error) {
	ts, err := web.NewTemplateSet(siteFS, siteFS, "layouts/*.html", "views", "", views)
	if err != nil {
		return nil, fmt.Errorf("parse site templates: %w", err)
	}

	s := &Site{
		templates: ts,
		provider:  provider,
		legacyDir: legacyDir,
		logger:    logger.With("module", "site"),
	}

	router := web.NewRouter()
	router.HandleFunc("GET /{$}", ts.DataHandler("main", views[0], s.loadIndex))
	router.HandleFunc("GET /samples", s.samplesPage)
	router.HandleFunc("GET /legacy/{campaign}", s.legacyPage)
	router.Handle("GET /static/", web.DistServer(siteFS, "static", "/static/"))

	stack := middleware.New()
	stack.Use(middleware.Logger(s.logger))

	return stack.Apply(router), nil
}

func (s *Site) loadIndex(_ *http.Request) (any, error) {
	return IndexPage{Campaigns: s.campaigns()}, nil
}

// campaigns lists the legacy flat files available under the legacy directory.
// A missing directory simply means no legacy campaigns are published.
func (s *Site) campaigns() []string {
	entries, err := os.ReadDir(s.legacyDir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".txt"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *Site) samplesPage(w http.ResponseWriter, r *http.Request) {
	db, err := s.provider.Database(r.Context())
	if err != nil {
		s.logger.Error("sample database unavailable", "error", err)
		http.Error(w, "sample database unavailable", samples.MapHTTPStatus(err))
		return
	}

	rows, lastUpdate := samples.Render(db)
	query := r.URL.Query().Get("q")
	rows = samples.Filter(rows, query)

	page := SamplesPage{
		LastUpdate: lastUpdate,
		Rows:       rows,
		Query:      query,
		Visible:    samples.Visible(rows),
	}

	view := views[1]
	data := web.ViewData{Title: view.Title, Data: page}
	if err := s.templates.Render(w, "main", view.Template, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Site) legacyPage(w http.ResponseWriter, r *http.Request) {
	campaign := r.PathValue("campaign")
	if campaign == "" || campaign != filepath.Base(campaign) {
		http.NotFound(w, r)
		return
	}

	data, err := os.ReadFile(filepath.Join(s.legacyDir, campaign+".txt"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("legacy table read failed", "campaign", campaign, "error", err)
		http.Error(w, "legacy table unavailable", http.StatusInternalServerError)
		return
	}

	page := LegacyPage{
		Campaign: campaign,
		Columns:  samples.LegacyColumns(),
		Rows:     samples.ParseLegacyTable(data),
	}

	view := views[2]
	viewData := web.ViewData{Title: campaign, Data: page}
	if err := s.templates.Render(w, "main", view.Template, viewData); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
