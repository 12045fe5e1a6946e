package samples

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fcc-hep/samplecat/pkg/storage"
)

// Loader reads a raw source document from an externally managed location.
// A document that does not exist or cannot be read yields ErrMissingSource.
type Loader interface {
	Load(ctx context.Context, path string) ([]byte, error)
}

// FileLoader reads source documents from the local filesystem.
type FileLoader struct{}

// Load reads the file at path, mapping read failures to ErrMissingSource.
func (FileLoader) Load(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingSource, path, err)
	}
	return data, nil
}

// BlobLoader reads source documents from blob storage, for deployments that
// mirror the upstream metadata into a container instead of a shared filesystem.
type BlobLoader struct {
	Store storage.System
}

// Load downloads the blob at key, mapping absence to ErrMissingSource.
func (l BlobLoader) Load(ctx context.Context, key string) ([]byte, error) {
	reader, err := l.Store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, key)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingSource, key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingSource, key, err)
	}
	return data, nil
}
