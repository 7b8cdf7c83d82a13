package api

import (
	"net/http"

	"route-visualizer/internal/adapters/scene"
	"route-visualizer/internal/api/handlers"
	"route-visualizer/internal/domain"
	"route-visualizer/internal/platform/metrics"
	"route-visualizer/internal/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
//
// Mutating /api routes share limiter; a nil limiter disables rate limiting.
func NewRouter(session *services.Session, view *scene.Scene, fleet domain.FleetParams, limiter *rate.Limiter) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.Use(metricsMiddleware)

	pointHandler := &handlers.PointHandler{Session: session}
	optimizeHandler := &handlers.OptimizeHandler{Session: session, Defaults: fleet}
	viewHandler := &handlers.ViewHandler{Scene: view}

	limited := rateLimit(limiter)

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/points", pointHandler.List).Methods(http.MethodGet)
	api.Handle("/points", limited(pointHandler.Add)).Methods(http.MethodPost)
	api.Handle("/points", limited(pointHandler.Clear)).Methods(http.MethodDelete)
	api.Handle("/points/sample", limited(pointHandler.LoadSample)).Methods(http.MethodPost)
	api.HandleFunc("/depot", pointHandler.GetDepot).Methods(http.MethodGet)
	api.Handle("/depot", limited(pointHandler.SetDepot)).Methods(http.MethodPut)
	api.Handle("/optimize", limited(optimizeHandler.Optimize)).Methods(http.MethodPost)
	api.HandleFunc("/result", optimizeHandler.Last).Methods(http.MethodGet)
	api.HandleFunc("/view", viewHandler.Snapshot).Methods(http.MethodGet)
	api.HandleFunc("/view/map.geojson", viewHandler.GeoJSON).Methods(http.MethodGet)
	api.HandleFunc("/view/stream", viewHandler.Stream).Methods(http.MethodGet)

	return loggingMiddleware(r)
}
