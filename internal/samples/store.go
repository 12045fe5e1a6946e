package samples

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DocumentStore persists the merged sample database as a single JSON document
// at a well-known path. Writes fully overwrite the previous version; there is
// no history and no diffing.
type DocumentStore struct {
	path string
}

// NewDocumentStore creates a DocumentStore writing to path.
func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

// Path returns the document location.
func (s *DocumentStore) Path() string {
	return s.path
}

// Write serializes db and overwrites the document. Serialization is
// deterministic: identical databases produce identical bytes.
func (s *DocumentStore) Write(db *Database) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sample database: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write sample database: %w", err)
	}
	return nil
}

// Read loads the current document. A document that has never been written
// yields ErrMissingSource.
func (s *DocumentStore) Read() (*Database, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, s.path)
		}
		return nil, fmt.Errorf("read sample database: %w", err)
	}

	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, s.path, err)
	}
	if db.Samples == nil {
		db.Samples = NewRecordSet()
	}
	return &db, nil
}
