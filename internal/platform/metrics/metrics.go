package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry served on /metrics.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)

	// OptimizeRequests counts optimization round trips by outcome
	// (ok, encode, transport, status, decode).
	OptimizeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimizer_requests_total", Help: "Optimization round trips by outcome."},
		[]string{"outcome"},
	)
	OptimizeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimizer_request_duration_seconds", Help: "Optimization round trip duration in seconds.", Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}},
	)

	// OptimizeCycles counts whole optimize cycles (build, submit, present)
	// by the stage that ended them.
	OptimizeCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimize_cycles_total", Help: "Optimize cycles by result."},
		[]string{"result"},
	)

	MapLayers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "map_layers", Help: "Layers currently on the map by kind."},
		[]string{"kind"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OptimizeRequests)
		Registry.MustRegister(OptimizeDuration)
		Registry.MustRegister(OptimizeCycles)
		Registry.MustRegister(MapLayers)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
