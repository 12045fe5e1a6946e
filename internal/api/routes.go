package api

import (
	"net/http"

	"github.com/fcc-hep/samplecat/internal/samples"
	"github.com/fcc-hep/samplecat/pkg/middleware"
	"github.com/fcc-hep/samplecat/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	handler *samples.Handler,
	verifier *middleware.Verifier,
) {
	group := handler.Routes()
	protect(group.Routes, verifier, "POST")
	routes.Register(mux, group)
}

// protect wraps routes matching the given methods with bearer-token
// verification. Read-only routes stay open.
func protect(list []routes.Route, verifier *middleware.Verifier, methods ...string) {
	require := verifier.Require()
	for i, route := range list {
		for _, method := range methods {
			if route.Method == method {
				list[i].Handler = require(route.Handler).ServeHTTP
				break
			}
		}
	}
}
