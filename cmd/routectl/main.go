package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"route-visualizer/internal/adapters/optimizer"
	"route-visualizer/internal/adapters/samples"
	"route-visualizer/internal/adapters/scene"
	"route-visualizer/internal/config"
	"route-visualizer/internal/domain"
	"route-visualizer/internal/platform/obs"
	"route-visualizer/internal/services"

	"github.com/joho/godotenv"
)

// routectl loads the sample points, runs one optimization against
// OPTIMIZER_URL and prints the result panel.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = obs.WithRequestID(ctx, "")

	if err := run(ctx, cfg, os.Stdout); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			log.Fatalf("invalid input: %v", err)
		}
		log.Fatalf("optimize failed: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	var sample []domain.GeoPoint
	if cfg.SamplePath != "" {
		var err error
		if sample, err = samples.LoadJSON(cfg.SamplePath); err != nil {
			return err
		}
	}

	client, err := optimizer.NewClient(cfg.OptimizerURL, cfg.OptimizerTimeout)
	if err != nil {
		return err
	}

	view := scene.New()
	renderer, err := services.NewMapRenderer(view, cfg.Palette)
	if err != nil {
		return err
	}
	presenter := services.NewResultPresenter(renderer, view, view)
	store := services.NewGeoPointStore(cfg.Depot, sample, nil)
	session := services.NewSession(store, renderer, presenter, client, view)

	if err := session.Init(); err != nil {
		return fmt.Errorf("init map: %w", err)
	}

	log.Println("Loading sample points...")
	points, err := session.LoadSample()
	if err != nil {
		return err
	}
	log.Printf("Loaded %d points.", len(points))

	log.Printf("Optimizing with %d vehicles (strategy=%s)...", cfg.Fleet.VehicleCount, cfg.Fleet.Strategy)
	if _, err := session.Optimize(ctx, cfg.Fleet); err != nil {
		return err
	}

	snap := view.Snapshot()
	if snap.Result == nil {
		return errors.New("no result was presented")
	}
	printPanel(out, snap)
	return nil
}

func printPanel(out io.Writer, snap scene.Snapshot) {
	s := snap.Result.Summary
	fmt.Fprintf(out, "Total cost:     %s\n", s.TotalCost)
	fmt.Fprintf(out, "Total distance: %s\n", s.TotalDistance)
	fmt.Fprintf(out, "Total time:     %s\n", s.TotalTime)
	fmt.Fprintf(out, "Vehicles used:  %s\n\n", s.VehiclesUsed)

	for _, r := range snap.Result.Routes {
		fmt.Fprintf(out, "%-9s stops=%-3d %-10s %-9s load=%-8s util=%s\n",
			r.Title, r.Stops, r.Distance, r.Time, r.Load, r.Utilization)
	}

	if cost, ok := snap.Charts[services.CostChartTarget]; ok {
		fmt.Fprintln(out)
		for _, v := range cost.Values {
			fmt.Fprintf(out, "%-12s $%.2f\n", v.Label, v.Value)
		}
	}
}
