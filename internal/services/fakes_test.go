package services

import (
	"errors"
	"fmt"

	"route-visualizer/internal/domain"
	"route-visualizer/internal/ports"
)

var errWidget = errors.New("widget failure")

// fakeMap records layers and fails the n-th AddPolyline / AddMarker when
// asked to.
type fakeMap struct {
	next      int
	markers   map[ports.LayerID]string
	polylines map[ports.LayerID]ports.PolylineStyle
	paths     [][]domain.Coordinates // every path added, in call order

	failPolylineAt int // 1-based; 0 never fails
	failMarkers    bool
	polylineCalls  int
}

func newFakeMap() *fakeMap {
	return &fakeMap{
		markers:   map[ports.LayerID]string{},
		polylines: map[ports.LayerID]ports.PolylineStyle{},
	}
}

func (f *fakeMap) id() ports.LayerID {
	f.next++
	return ports.LayerID(fmt.Sprintf("layer-%d", f.next))
}

func (f *fakeMap) AddMarker(at domain.Coordinates, label string) (ports.LayerID, error) {
	if f.failMarkers {
		return "", errWidget
	}
	id := f.id()
	f.markers[id] = label
	return id, nil
}

func (f *fakeMap) AddPolyline(path []domain.Coordinates, style ports.PolylineStyle) (ports.LayerID, error) {
	f.polylineCalls++
	if f.failPolylineAt != 0 && f.polylineCalls == f.failPolylineAt {
		return "", errWidget
	}
	id := f.id()
	f.polylines[id] = style
	f.paths = append(f.paths, append([]domain.Coordinates(nil), path...))
	return id, nil
}

func (f *fakeMap) RemoveLayer(id ports.LayerID) error {
	if _, ok := f.markers[id]; ok {
		delete(f.markers, id)
		return nil
	}
	if _, ok := f.polylines[id]; ok {
		delete(f.polylines, id)
		return nil
	}
	return fmt.Errorf("unknown layer %s", id)
}

// fakeViews implements the chart, text and busy ports.
type fakeViews struct {
	pies   map[string][]ports.ChartValue
	bars   map[string][]ports.ChartValue
	panel  *ports.ResultPanel
	busy   []bool
	failOn string // "pie", "bar" or "text"
}

func newFakeViews() *fakeViews {
	return &fakeViews{
		pies: map[string][]ports.ChartValue{},
		bars: map[string][]ports.ChartValue{},
	}
}

func (f *fakeViews) RenderPie(target string, values []ports.ChartValue) error {
	if f.failOn == "pie" && values != nil {
		return errWidget
	}
	f.pies[target] = values
	return nil
}

func (f *fakeViews) RenderBar(target string, values []ports.ChartValue) error {
	if f.failOn == "bar" && values != nil {
		return errWidget
	}
	f.bars[target] = values
	return nil
}

func (f *fakeViews) ShowResult(panel ports.ResultPanel) error {
	if f.failOn == "text" {
		return errWidget
	}
	f.panel = &panel
	return nil
}

func (f *fakeViews) ClearResult() { f.panel = nil }

func (f *fakeViews) SetBusy(busy bool) { f.busy = append(f.busy, busy) }

func samplePoints() []domain.GeoPoint {
	out := make([]domain.GeoPoint, len(NairobiSample))
	copy(out, NairobiSample)
	return out
}

// twoRouteResult covers all five sample points with two routes.
func twoRouteResult() *domain.OptimizationResult {
	return &domain.OptimizationResult{
		Routes: []domain.Route{
			{Stops: []int{0, 3, 1, 0}, Distance: 12.34, Time: 0.75, Load: 250, LoadUtilization: 83.3},
			{Stops: []int{0, 2, 4, 5, 0}, Distance: 20, Time: 1.25, Load: 280, LoadUtilization: 93.3},
		},
		Costs:   domain.Costs{Total: 100, Fuel: 40, Labor: 30, Maintenance: 20, Carbon: 10},
		Summary: domain.Summary{TotalDistance: 32.34, TotalTime: 2, VehiclesUsed: 2},
	}
}
