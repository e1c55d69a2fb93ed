package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router assembles the HTTP routes. /healthz and /metrics are open;
// everything under /v1 requires a valid API key.
func (s *DetectionService) Router(authn Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(authn.Middleware)
		r.Post("/detections", s.handleCreateDetection)
		r.Get("/detections", s.handleListDetections)
		r.Get("/detections/{id}", s.handleGetDetection)
		r.Get("/types", s.handleListTypes)
		r.Get("/types/{id}", s.handleGetType)
	})

	return r
}

func (s *DetectionService) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// instrument records one log line and one metrics observation per request.
// Route pattern is resolved after the handler ran so {id} style patterns
// are reported instead of raw paths (bounded label cardinality).
func (s *DetectionService) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)

		s.metrics.RecordHTTPRequest(r.Method, route, ww.Status(), elapsed)
		s.log.Info().
			Str("method", r.Method).
			Str("route", route).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", elapsed).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request handled")
	})
}
