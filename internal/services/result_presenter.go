package services

import (
	"errors"
	"fmt"
	"log"
	"math"

	"route-visualizer/internal/domain"
	"route-visualizer/internal/ports"
)

// Chart targets re-rendered in place on every result.
const (
	CostChartTarget        = "cost-chart"
	UtilizationChartTarget = "efficiency-chart"
)

// Components may legitimately differ from the total (fixed vehicle cost);
// anything beyond this is logged, never corrected.
const costTolerance = 0.01

var costSlices = []struct {
	label string
	color string
	value func(domain.Costs) float64
}{
	{"Fuel", "#ef4444", func(c domain.Costs) float64 { return c.Fuel }},
	{"Labor", "#3b82f6", func(c domain.Costs) float64 { return c.Labor }},
	{"Maintenance", "#10b981", func(c domain.Costs) float64 { return c.Maintenance }},
	{"Carbon", "#f59e0b", func(c domain.Costs) float64 { return c.Carbon }},
}

const (
	fixedCostColor   = "#64748b"
	utilizationColor = "#8b5cf6"
)

type routeDrawer interface {
	DrawRoutes(routes []domain.Route, depot domain.GeoPoint, points []domain.GeoPoint) error
	ClearRoutes() error
}

// Presentation is a fully formatted result, staged before any view is touched.
type Presentation struct {
	Panel       ports.ResultPanel
	Costs       []ports.ChartValue
	Utilization []ports.ChartValue
}

// ResultPresenter fans one optimization result out to the text views, both
// charts and the map.
type ResultPresenter struct {
	routes routeDrawer
	charts ports.ChartWidget
	text   ports.TextView
}

func NewResultPresenter(routes routeDrawer, charts ports.ChartWidget, text ports.TextView) *ResultPresenter {
	return &ResultPresenter{routes: routes, charts: charts, text: text}
}

// Present renders result as one update. depot and points must be the ones the
// originating request was built from; they are not reconciled against the
// current store.
//
// On error nothing trustworthy is shown: result views are cleared and the
// returned error is a *domain.PresentationError.
func (p *ResultPresenter) Present(result *domain.OptimizationResult, depot domain.GeoPoint, points []domain.GeoPoint) error {
	staged, err := Stage(result)
	if err != nil {
		return err
	}

	// DrawRoutes resolves every stop before touching the map, so a bad stop
	// index fails here before any polyline is added.
	if err := p.routes.DrawRoutes(result.Routes, depot, points); err != nil {
		return &domain.PresentationError{Step: "map", Reason: "draw routes", Err: errors.Join(err, p.rollback())}
	}

	if err := p.commit(staged); err != nil {
		return &domain.PresentationError{Step: "views", Err: errors.Join(err, p.rollback())}
	}

	return nil
}

func (p *ResultPresenter) commit(staged *Presentation) error {
	if err := p.charts.RenderPie(CostChartTarget, staged.Costs); err != nil {
		return fmt.Errorf("render cost chart: %w", err)
	}
	if err := p.charts.RenderBar(UtilizationChartTarget, staged.Utilization); err != nil {
		return fmt.Errorf("render utilization chart: %w", err)
	}
	if err := p.text.ShowResult(staged.Panel); err != nil {
		return fmt.Errorf("show result panel: %w", err)
	}
	return nil
}

// Clear removes every result view, leaving markers in place.
func (p *ResultPresenter) Clear() error {
	return p.rollback()
}

func (p *ResultPresenter) rollback() error {
	p.text.ClearResult()
	return errors.Join(
		p.routes.ClearRoutes(),
		p.charts.RenderPie(CostChartTarget, nil),
		p.charts.RenderBar(UtilizationChartTarget, nil),
	)
}

// Stage validates the shape of result and formats every view from it.
// Values are taken verbatim from the result; nothing is recomputed.
func Stage(result *domain.OptimizationResult) (*Presentation, error) {
	if result == nil {
		return nil, &domain.PresentationError{Step: "validate", Reason: "result is nil"}
	}

	c := result.Costs
	for _, v := range []float64{c.Total, c.Fuel, c.Labor, c.Maintenance, c.Carbon, c.Fixed} {
		if !finite(v) {
			return nil, &domain.PresentationError{Step: "validate", Reason: "costs contain a non-finite value"}
		}
	}

	s := result.Summary
	if !finite(s.TotalDistance) || !finite(s.TotalTime) || s.VehiclesUsed < 0 {
		return nil, &domain.PresentationError{Step: "validate", Reason: "summary is malformed"}
	}

	cards := make([]ports.RouteCard, 0, len(result.Routes))
	bars := make([]ports.ChartValue, 0, len(result.Routes))
	for i, rt := range result.Routes {
		if err := checkRoute(rt); err != nil {
			return nil, &domain.PresentationError{Step: "validate", Reason: fmt.Sprintf("route %d", i+1), Err: err}
		}

		title := fmt.Sprintf("Route %d", i+1)
		cards = append(cards, ports.RouteCard{
			Title:       title,
			Stops:       rt.StopCount(),
			Distance:    fmt.Sprintf("%.1f km", rt.Distance),
			Time:        fmt.Sprintf("%.1f hrs", rt.Time),
			Load:        fmt.Sprintf("%d kg", rt.Load),
			Utilization: fmt.Sprintf("%.1f%%", rt.LoadUtilization),
		})
		bars = append(bars, ports.ChartValue{Label: title, Value: rt.LoadUtilization, Color: utilizationColor})
	}

	pie := make([]ports.ChartValue, 0, len(costSlices)+1)
	sum := 0.0
	for _, cs := range costSlices {
		v := cs.value(c)
		pie = append(pie, ports.ChartValue{Label: cs.label, Value: v, Color: cs.color})
		sum += v
	}
	if c.Fixed != 0 {
		pie = append(pie, ports.ChartValue{Label: "Fixed", Value: c.Fixed, Color: fixedCostColor})
		sum += c.Fixed
	}
	if math.Abs(sum-c.Total) > costTolerance {
		log.Printf("cost breakdown does not match total: components=%.2f total=%.2f", sum, c.Total)
	}

	return &Presentation{
		Panel: ports.ResultPanel{
			Summary: ports.SummaryText{
				TotalCost:     fmt.Sprintf("$%.2f", c.Total),
				TotalDistance: fmt.Sprintf("%.1f km", s.TotalDistance),
				TotalTime:     fmt.Sprintf("%.1f hrs", s.TotalTime),
				VehiclesUsed:  fmt.Sprintf("%d", s.VehiclesUsed),
			},
			Routes: cards,
		},
		Costs:       pie,
		Utilization: bars,
	}, nil
}

func checkRoute(rt domain.Route) error {
	n := len(rt.Stops)
	if n < 2 || rt.Stops[0] != domain.DepotStop || rt.Stops[n-1] != domain.DepotStop {
		return fmt.Errorf("stops %v do not start and end at the depot", rt.Stops)
	}
	if !finite(rt.Distance) || !finite(rt.Time) || !finite(rt.LoadUtilization) {
		return errors.New("non-finite metric")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
