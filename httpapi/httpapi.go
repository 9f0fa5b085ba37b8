// Package httpapi is the minimal control surface for a *lodcache.Engine
// (SPEC_FULL.md §E): the "query layer" spec.md §2 says sits above the
// engine, reduced to enough of a chi router to retrieve on demand and
// observe engine state.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fortytwonet/lodcache"
)

// New builds a chi.Router exposing:
//
//	POST /retrieve?iri=<iri>  triggers Engine.Retrieve, returns the CacheEntry
//	GET  /accept              the engine's negotiated Accept header
//	GET  /stats               index size and configuration
//	GET  /healthz             liveness probe
//	GET  /metrics             prometheus scrape endpoint
func New(engine *lodcache.Engine, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/retrieve", func(w http.ResponseWriter, req *http.Request) {
		iri := req.URL.Query().Get("iri")
		if iri == "" {
			http.Error(w, "missing iri query parameter", http.StatusBadRequest)
			return
		}
		entry, err := engine.Retrieve(req.Context(), iri)
		if err != nil {
			log.Warn().Err(err).Str("iri", iri).Msg("retrieve request failed")
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, entry)
	})

	r.Get("/accept", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(engine.AcceptHeader()))
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, struct {
			IndexSize int             `json:"indexSize"`
			Config    lodcache.Config `json:"config"`
		}{
			IndexSize: engine.IndexSize(),
			Config:    engine.Config(),
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
