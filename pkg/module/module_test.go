package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fcc-hep/samplecat/pkg/module"
)

func TestNewValidatesPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		valid  bool
	}{
		{"single level", "/api", true},
		{"empty", "", false},
		{"missing slash", "api", false},
		{"multi level", "/api/v1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				recovered := recover() != nil
				if recovered == tt.valid {
					t.Errorf("prefix %q: panic = %v, want valid = %v", tt.prefix, recovered, tt.valid)
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("items"))
	})

	router := module.NewRouter()
	router.Mount(module.New("/api", mux))
	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	t.Run("module prefix stripped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/items", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "items" {
			t.Errorf("status = %d, body = %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("native fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
		if rec.Body.String() != "ok" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("unknown path 404s", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestModuleMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("inner"))
	})

	m := module.New("/api", mux)
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "applied")
			next.ServeHTTP(w, r)
		})
	})

	router := module.NewRouter()
	router.Mount(m)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api", nil))

	if rec.Header().Get("X-Test") != "applied" {
		t.Error("module middleware not applied")
	}
	if rec.Body.String() != "inner" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
