package refresh_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fcc-hep/samplecat/internal/refresh"
	"github.com/fcc-hep/samplecat/internal/samples"
)

const baseAugments = `{"s1": {"status": "done"}}`

func sourceFixture(t *testing.T, transformations string) (string, string, string) {
	t.Helper()
	dir := t.TempDir()

	augPath := filepath.Join(dir, "sample-augments.json")
	transPath := filepath.Join(dir, "transformation-info.json")

	if err := os.WriteFile(augPath, []byte(baseAugments), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(transPath, []byte(transformations), 0o644); err != nil {
		t.Fatal(err)
	}
	return augPath, transPath, filepath.Join(dir, "sample-database.json")
}

func fixtureMerger(t *testing.T, transformations string) (*samples.Merger, string) {
	t.Helper()
	augPath, transPath, dbPath := sourceFixture(t, transformations)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	merger := samples.NewMerger(
		samples.FileLoader{},
		samples.NewDocumentStore(dbPath),
		augPath,
		transPath,
		logger,
		func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) },
	)
	return merger, transPath
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRejectsUnknownMode(t *testing.T) {
	merger, _ := fixtureMerger(t, `{"s1": {"status": "done"}}`)

	if _, err := refresh.New(merger, "sometimes", nil, testLogger()); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestAlwaysModeMergesPerRead(t *testing.T) {
	merger, transPath := fixtureMerger(t, `{"s1": {"status": "done"}}`)

	svc, err := refresh.New(merger, refresh.ModeAlways, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	db, err := svc.Database(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", db.Len())
	}

	// a source edit must be visible on the very next read
	next := `{"s1": {"status": "done"}, "s2": {"status": "running"}}`
	if err := os.WriteFile(transPath, []byte(next), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err = svc.Database(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after source change", db.Len())
	}
}

func TestWatchModeCachesUntilRefresh(t *testing.T) {
	merger, transPath := fixtureMerger(t, `{"s1": {"status": "done"}}`)

	svc, err := refresh.New(merger, refresh.ModeWatch, []string{transPath}, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	db, err := svc.Database(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", db.Len())
	}

	// without the watcher running, reads serve the cached database
	next := `{"s1": {"status": "done"}, "s2": {"status": "running"}}`
	if err := os.WriteFile(transPath, []byte(next), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err = svc.Database(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 1 {
		t.Errorf("Len() = %d, cached database expected", db.Len())
	}

	// a forced refresh rebuilds and replaces the cache
	db, stats, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 2 || stats.Merged != 2 {
		t.Errorf("Len() = %d, Merged = %d, want 2/2 after refresh", db.Len(), stats.Merged)
	}

	db, _ = svc.Database(context.Background())
	if db.Len() != 2 {
		t.Errorf("Len() = %d, refresh result must be cached", db.Len())
	}
}
