package services

import (
	"errors"
	"fmt"
	"sync"

	"route-visualizer/internal/domain"
	"route-visualizer/internal/platform/metrics"
	"route-visualizer/internal/ports"
)

const (
	routeWidth   = 3
	routeOpacity = 0.7
)

// MapRenderer keeps the map widget's layers in step with the point store and
// the latest optimization result. It never mutates domain data; its layers are
// a derived view that is rebuilt on every change.
//
// All widget calls go through the renderer's mutex.
type MapRenderer struct {
	mu      sync.Mutex
	widget  ports.MapWidget
	palette []string

	depot   ports.LayerID
	markers []ports.LayerID
	routes  []ports.LayerID
}

func NewMapRenderer(widget ports.MapWidget, palette []string) (*MapRenderer, error) {
	if widget == nil {
		return nil, errors.New("map renderer: widget is nil")
	}
	if len(palette) == 0 {
		return nil, errors.New("map renderer: palette must not be empty")
	}

	return &MapRenderer{
		widget:  widget,
		palette: append([]string(nil), palette...),
	}, nil
}

// RouteColor returns the palette color of the i-th route. Colors repeat when
// there are more routes than palette entries.
func (r *MapRenderer) RouteColor(i int) string {
	return r.palette[i%len(r.palette)]
}

// Reset removes every overlay and places a single depot marker.
func (r *MapRenderer) Reset(depot domain.GeoPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.report()

	var err error
	if r.routes, err = r.removeAll(r.routes); err != nil {
		return fmt.Errorf("map reset: remove routes: %w", err)
	}
	if r.markers, err = r.removeAll(r.markers); err != nil {
		return fmt.Errorf("map reset: remove markers: %w", err)
	}
	if r.depot != "" {
		if err := r.widget.RemoveLayer(r.depot); err != nil {
			return fmt.Errorf("map reset: remove depot: %w", err)
		}
		r.depot = ""
	}

	id, err := r.widget.AddMarker(depot.Coordinates(), depotLabel(depot))
	if err != nil {
		return fmt.Errorf("map reset: add depot marker: %w", err)
	}
	r.depot = id

	return nil
}

// SyncMarkers replaces all non-depot markers with exactly one marker per
// point, in order. Calling it repeatedly with the same points leaves the same
// marker set.
func (r *MapRenderer) SyncMarkers(points []domain.GeoPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.report()

	var err error
	if r.markers, err = r.removeAll(r.markers); err != nil {
		return fmt.Errorf("sync markers: %w", err)
	}

	for _, p := range points {
		id, err := r.widget.AddMarker(p.Coordinates(), p.Name)
		if err != nil {
			return fmt.Errorf("sync markers: add marker for point %d: %w", p.ID, err)
		}
		r.markers = append(r.markers, id)
	}

	return nil
}

// DrawRoutes draws one polyline per route over the current markers. Polylines
// of the previous result are replaced; markers are left alone. depot and
// points must be the ones the routes were computed for: stale points are
// drawn as given.
//
// Every stop is resolved before the widget is touched. If the widget fails
// part-way, the polylines added by this call are removed again.
func (r *MapRenderer) DrawRoutes(routes []domain.Route, depot domain.GeoPoint, points []domain.GeoPoint) error {
	paths := make([][]domain.Coordinates, 0, len(routes))
	for i, rt := range routes {
		path, err := domain.ResolvePath(rt.Stops, depot, points)
		if err != nil {
			return fmt.Errorf("draw routes: route %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.report()

	var err error
	if r.routes, err = r.removeAll(r.routes); err != nil {
		return fmt.Errorf("draw routes: remove previous routes: %w", err)
	}

	for i, path := range paths {
		style := ports.PolylineStyle{
			Color:   r.RouteColor(i),
			Width:   routeWidth,
			Opacity: routeOpacity,
		}

		id, err := r.widget.AddPolyline(path, style)
		if err != nil {
			remaining, rbErr := r.removeAll(r.routes)
			r.routes = remaining
			return errors.Join(fmt.Errorf("draw routes: add polyline for route %d: %w", i+1, err), rbErr)
		}
		r.routes = append(r.routes, id)
	}

	return nil
}

// ClearRoutes removes route polylines only.
func (r *MapRenderer) ClearRoutes() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.report()

	var err error
	if r.routes, err = r.removeAll(r.routes); err != nil {
		return fmt.Errorf("clear routes: %w", err)
	}
	return nil
}

// Counts reports the markers (depot included) and polylines currently drawn.
func (r *MapRenderer) Counts() (markers int, polylines int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	markers = len(r.markers)
	if r.depot != "" {
		markers++
	}
	return markers, len(r.routes)
}

// removeAll removes ids in order and returns the ids that are still on the
// map (all of them from the first failure on).
func (r *MapRenderer) removeAll(ids []ports.LayerID) ([]ports.LayerID, error) {
	for i, id := range ids {
		if err := r.widget.RemoveLayer(id); err != nil {
			return ids[i:], fmt.Errorf("remove layer %s: %w", id, err)
		}
	}
	return nil, nil
}

// report must be called with r.mu held.
func (r *MapRenderer) report() {
	depot := 0
	if r.depot != "" {
		depot = 1
	}
	metrics.MapLayers.WithLabelValues("depot").Set(float64(depot))
	metrics.MapLayers.WithLabelValues("marker").Set(float64(len(r.markers)))
	metrics.MapLayers.WithLabelValues("route").Set(float64(len(r.routes)))
}

func depotLabel(depot domain.GeoPoint) string {
	if depot.Name == "" {
		return "Depot"
	}
	return depot.Name
}
