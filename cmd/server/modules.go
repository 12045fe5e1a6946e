package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fcc-hep/samplecat/internal/api"
	"github.com/fcc-hep/samplecat/internal/config"
	"github.com/fcc-hep/samplecat/internal/infrastructure"
	"github.com/fcc-hep/samplecat/pkg/module"
	"github.com/fcc-hep/samplecat/web/site"
)

type Modules struct {
	API  *module.Module
	Site http.Handler
}

func NewModules(
	ctx context.Context,
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
	domain *api.Domain,
) (*Modules, error) {
	apiModule, err := api.NewModule(ctx, cfg, infra, domain)
	if err != nil {
		return nil, err
	}

	siteHandler, err := site.NewHandler(domain.Provider, cfg.Catalog.LegacyDir, infra.Logger)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:  apiModule,
		Site: siteHandler,
	}, nil
}

// Mount attaches the API under its base path and the site as the fallback for
// everything else.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.HandleNative("/", m.Site)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))

	router.HandleNative("GET /readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}))

	router.HandleNative("GET /metrics", promhttp.Handler())

	return router
}
