// Package api assembles the JSON API module: sample endpoints, CORS, request
// logging, and optional bearer-token protection on mutating routes.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fcc-hep/samplecat/internal/config"
	"github.com/fcc-hep/samplecat/internal/infrastructure"
	"github.com/fcc-hep/samplecat/internal/samples"
	"github.com/fcc-hep/samplecat/pkg/middleware"
	"github.com/fcc-hep/samplecat/pkg/module"
)

// NewModule creates the API module mounted at cfg.API.BasePath. The context is
// used for OIDC provider discovery when auth is enabled.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	domain *Domain,
) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	verifier, err := middleware.NewVerifier(ctx, &cfg.API.Auth, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	handler := samples.NewHandler(
		domain.Provider,
		domain.Store,
		runtime.Logger,
		runtime.Pagination,
	)

	mux := http.NewServeMux()
	registerRoutes(mux, handler, verifier)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
