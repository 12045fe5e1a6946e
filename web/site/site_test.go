package site_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fcc-hep/samplecat/internal/samples"
	"github.com/fcc-hep/samplecat/web/site"
)

type stubProvider struct {
	db  *samples.Database
	err error
}

func (s *stubProvider) Database(context.Context) (*samples.Database, error) {
	return s.db, s.err
}

func (s *stubProvider) Refresh(context.Context) (*samples.Database, samples.Stats, error) {
	return s.db, samples.Stats{}, s.err
}

func fptr(v float64) *float64 { return &v }

func testDatabase() *samples.Database {
	set := samples.NewRecordSet()
	set.Set("p8_ee_ZH", samples.Record{
		Name:              "Z Higgs",
		Status:            "done",
		CrossSection:      fptr(0.201),
		CrossSectionError: fptr(0.004),
		Efficiency:        1.0,
		Path:              []string{"/eos/zh"},
	})
	set.Set("p8_ee_WW", samples.Record{
		Status:     "running",
		Efficiency: 1.0,
	})
	return &samples.Database{
		LastUpdate: "2026-01-15T12:00:00Z",
		Samples:    set,
	}
}

func newTestSite(t *testing.T, provider samples.Provider, legacyDir string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler, err := site.NewHandler(provider, legacyDir, logger)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return handler
}

func TestSamplesPage(t *testing.T) {
	handler := newTestSite(t, &stubProvider{db: testDatabase()}, t.TempDir())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/samples", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"Z Higgs",
		"0.201 ± 0.004",
		"status-running",
		"2026-01-15T12:00:00Z",
		`id="sample-filter"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestSamplesPageServerSideFilter(t *testing.T) {
	handler := newTestSite(t, &stubProvider{db: testDatabase()}, t.TempDir())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/samples?q=higgs", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `data-label="p8_ee_WW" hidden`) {
		t.Error("non-matching row should carry the hidden attribute")
	}
	if strings.Contains(body, `data-label="Z Higgs" hidden`) {
		t.Error("matching row must stay visible")
	}
}

func TestSamplesPageSourceUnavailable(t *testing.T) {
	handler := newTestSite(t, &stubProvider{err: samples.ErrMissingSource}, t.TempDir())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/samples", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestLegacyPage(t *testing.T) {
	dir := t.TempDir()
	table := "ee_Zbb,,1000000,,50000,,6645.46,,0.95,,1.2,,/eos/fcc/ee_Zbb,,1073741824\n"
	if err := os.WriteFile(filepath.Join(dir, "spring2021.txt"), []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	handler := newTestSite(t, &stubProvider{db: testDatabase()}, dir)

	t.Run("renders the flat file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/legacy/spring2021", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"ee_Zbb", "1,000,000", "6645.46", "1.0 GB"} {
			if !strings.Contains(body, want) {
				t.Errorf("page missing %q", want)
			}
		}
	})

	t.Run("unknown campaign 404s", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/legacy/winter9999", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestIndexListsCampaigns(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "spring2021.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	handler := newTestSite(t, &stubProvider{db: testDatabase()}, dir)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `href="/legacy/spring2021"`) {
		t.Error("index should link to the legacy campaign")
	}
}
