package main

import (
	"log"
	"net/http"
	"time"

	"route-visualizer/internal/adapters/optimizer"
	"route-visualizer/internal/adapters/samples"
	"route-visualizer/internal/adapters/scene"
	"route-visualizer/internal/api"
	"route-visualizer/internal/config"
	"route-visualizer/internal/domain"
	"route-visualizer/internal/platform/metrics"
	"route-visualizer/internal/services"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires the in-memory scene and the optimization client behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var sample []domain.GeoPoint
	if cfg.SamplePath != "" {
		sample, err = samples.LoadJSON(cfg.SamplePath)
		if err != nil {
			log.Fatal(err)
		}
	}

	client, err := optimizer.NewClient(cfg.OptimizerURL, cfg.OptimizerTimeout)
	if err != nil {
		log.Fatal(err)
	}

	metrics.RegisterDefault()

	view := scene.New()
	renderer, err := services.NewMapRenderer(view, cfg.Palette)
	if err != nil {
		log.Fatal(err)
	}
	presenter := services.NewResultPresenter(renderer, view, view)
	store := services.NewGeoPointStore(cfg.Depot, sample, nil)

	session := services.NewSession(store, renderer, presenter, client, view)
	if err := session.Init(); err != nil {
		log.Fatal(err)
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	router := api.NewRouter(session, view, cfg.Fleet, limiter)

	// No WriteTimeout: optimize calls wait on the external service and the
	// view stream is long-lived.
	log.Printf("Server listening addr=:%s optimizer=%s", cfg.Port, cfg.OptimizerURL)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
