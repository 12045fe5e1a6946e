package api

import (
	"fmt"

	"github.com/fcc-hep/samplecat/internal/config"
	"github.com/fcc-hep/samplecat/internal/infrastructure"
	"github.com/fcc-hep/samplecat/internal/refresh"
	"github.com/fcc-hep/samplecat/internal/samples"
	"github.com/fcc-hep/samplecat/pkg/lifecycle"
)

// Domain holds the catalog systems shared by the API and site modules: the
// refresh service producing the merged sample database, and the optional
// PostgreSQL-backed store.
type Domain struct {
	Provider *refresh.Service
	Store    samples.Store
}

// NewDomain assembles the merge pipeline from configuration. The source
// loader is chosen by catalog.source; the store is only created when the
// database mirror is enabled.
func NewDomain(cfg *config.Config, infra *infrastructure.Infrastructure) (*Domain, error) {
	var loader samples.Loader = samples.FileLoader{}
	if cfg.Catalog.Source == config.SourceBlob {
		loader = samples.BlobLoader{Store: infra.Storage}
	}

	merger := samples.NewMerger(
		loader,
		samples.NewDocumentStore(cfg.Catalog.DatabasePath),
		cfg.Catalog.AugmentsPath,
		cfg.Catalog.TransformationsPath,
		infra.Logger,
		nil,
	)

	watchPaths := []string{cfg.Catalog.AugmentsPath, cfg.Catalog.TransformationsPath}
	provider, err := refresh.New(merger, cfg.Catalog.RefreshMode, watchPaths, infra.Logger)
	if err != nil {
		return nil, fmt.Errorf("refresh service init failed: %w", err)
	}

	domain := &Domain{Provider: provider}

	if infra.Database != nil {
		domain.Store = samples.NewStore(
			infra.Database.Connection(),
			infra.Logger,
			cfg.API.Pagination,
		)
	}

	return domain, nil
}

// Start registers the refresh service with the lifecycle coordinator.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	return d.Provider.Start(lc)
}
