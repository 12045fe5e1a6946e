package samples_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fcc-hep/samplecat/internal/samples"
	"github.com/fcc-hep/samplecat/pkg/pagination"
	"github.com/fcc-hep/samplecat/pkg/routes"
)

type stubProvider struct {
	db    *samples.Database
	stats samples.Stats
	err   error
}

func (s *stubProvider) Database(context.Context) (*samples.Database, error) {
	return s.db, s.err
}

func (s *stubProvider) Refresh(context.Context) (*samples.Database, samples.Stats, error) {
	return s.db, s.stats, s.err
}

func newTestServer(provider samples.Provider) *http.ServeMux {
	handler := samples.NewHandler(provider, nil, discardLogger(), pagination.Config{
		DefaultPageSize: 50,
		MaxPageSize:     200,
	})

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())
	return mux
}

func TestHandlerList(t *testing.T) {
	mux := newTestServer(&stubProvider{db: testDatabase()})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/samples", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp samples.TableResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Rows) != 3 {
		t.Errorf("len(rows) = %d, want 3", len(resp.Rows))
	}
	if resp.Visible != 3 {
		t.Errorf("visible = %d, want 3", resp.Visible)
	}
	if resp.LastUpdate != "2026-01-15T12:00:00Z" {
		t.Errorf("last_update = %q", resp.LastUpdate)
	}
}

func TestHandlerListFiltered(t *testing.T) {
	mux := newTestServer(&stubProvider{db: testDatabase()})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/samples?q=higgs", nil))

	var resp samples.TableResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Rows) != 3 {
		t.Errorf("len(rows) = %d, filtered rows must stay in place", len(resp.Rows))
	}
	if resp.Visible != 1 {
		t.Errorf("visible = %d, want 1", resp.Visible)
	}
}

func TestHandlerListMissingSource(t *testing.T) {
	mux := newTestServer(&stubProvider{err: samples.ErrMissingSource})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/samples", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 for a missing source", rec.Code)
	}
}

func TestHandlerFind(t *testing.T) {
	mux := newTestServer(&stubProvider{db: testDatabase()})

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/samples/p8_ee_ZH", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp map[string]samples.Record
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp["p8_ee_ZH"].Name != "Z Higgs" {
			t.Errorf("record = %+v", resp["p8_ee_ZH"])
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/samples/missing", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerRefresh(t *testing.T) {
	provider := &stubProvider{
		db:    testDatabase(),
		stats: samples.Stats{Merged: 3, DroppedOverrides: 1, DroppedIDs: []string{"orphan"}},
	}
	mux := newTestServer(provider)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/samples/refresh", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp samples.RefreshResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stats.DroppedOverrides != 1 {
		t.Errorf("dropped_overrides = %d, want 1", resp.Stats.DroppedOverrides)
	}
}
