package scene

import (
	"errors"
	"fmt"
	"sync"

	"route-visualizer/internal/domain"
	"route-visualizer/internal/ports"

	"github.com/google/uuid"
)

type LayerKind string

const (
	KindMarker   LayerKind = "marker"
	KindPolyline LayerKind = "polyline"
)

type ChartKind string

const (
	ChartPie ChartKind = "pie"
	ChartBar ChartKind = "bar"
)

// Layer is one overlay on the map.
type Layer struct {
	ID    ports.LayerID        `json:"id"`
	Kind  LayerKind            `json:"kind"`
	Label string               `json:"label,omitempty"`
	Path  []domain.Coordinates `json:"path"`
	Style *ports.PolylineStyle `json:"style,omitempty"`
}

type Chart struct {
	Kind   ChartKind          `json:"kind"`
	Values []ports.ChartValue `json:"values"`
}

// Snapshot is an immutable copy of everything the scene shows.
type Snapshot struct {
	Revision uint64             `json:"revision"`
	Busy     bool               `json:"busy"`
	Layers   []Layer            `json:"layers"`
	Charts   map[string]Chart   `json:"charts"`
	Result   *ports.ResultPanel `json:"result,omitempty"`
}

// Count returns the number of layers of the given kind.
func (s Snapshot) Count(kind LayerKind) int {
	n := 0
	for _, l := range s.Layers {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

var ErrUnknownLayer = errors.New("unknown layer")

// Scene is an in-memory rendering surface: it implements the map, chart,
// text and busy-indicator ports, and publishes a Snapshot to subscribers
// after every change. Safe for concurrent use.
type Scene struct {
	mu     sync.Mutex
	layers map[ports.LayerID]*Layer
	order  []ports.LayerID
	charts map[string]Chart
	result *ports.ResultPanel
	busy   bool
	rev    uint64

	subs map[chan Snapshot]struct{}
}

var (
	_ ports.MapWidget     = (*Scene)(nil)
	_ ports.ChartWidget   = (*Scene)(nil)
	_ ports.TextView      = (*Scene)(nil)
	_ ports.BusyIndicator = (*Scene)(nil)
)

func New() *Scene {
	return &Scene{
		layers: map[ports.LayerID]*Layer{},
		charts: map[string]Chart{},
		subs:   map[chan Snapshot]struct{}{},
	}
}

func (s *Scene) AddMarker(at domain.Coordinates, label string) (ports.LayerID, error) {
	if !at.Finite() {
		return "", fmt.Errorf("add marker %q: coordinates must be finite", label)
	}
	return s.add(&Layer{Kind: KindMarker, Label: label, Path: []domain.Coordinates{at}}), nil
}

func (s *Scene) AddPolyline(path []domain.Coordinates, style ports.PolylineStyle) (ports.LayerID, error) {
	if len(path) < 2 {
		return "", fmt.Errorf("add polyline: need at least 2 coordinates, got %d", len(path))
	}
	for i, c := range path {
		if !c.Finite() {
			return "", fmt.Errorf("add polyline: coordinate %d is not finite", i)
		}
	}

	st := style
	return s.add(&Layer{Kind: KindPolyline, Path: append([]domain.Coordinates(nil), path...), Style: &st}), nil
}

func (s *Scene) RemoveLayer(id ports.LayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layers[id]; !ok {
		return fmt.Errorf("remove layer %s: %w", id, ErrUnknownLayer)
	}
	delete(s.layers, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.changed()
	return nil
}

func (s *Scene) RenderPie(target string, values []ports.ChartValue) error {
	return s.render(target, ChartPie, values)
}

func (s *Scene) RenderBar(target string, values []ports.ChartValue) error {
	return s.render(target, ChartBar, values)
}

func (s *Scene) ShowResult(panel ports.ResultPanel) error {
	p := panel
	p.Routes = append([]ports.RouteCard(nil), panel.Routes...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &p
	s.changed()
	return nil
}

func (s *Scene) ClearResult() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return
	}
	s.result = nil
	s.changed()
}

func (s *Scene) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy == busy {
		return
	}
	s.busy = busy
	s.changed()
}

// Snapshot returns a copy of the current scene.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe returns a channel receiving a Snapshot after every change,
// starting with the current one. Slow subscribers miss intermediate
// snapshots rather than blocking the scene.
func (s *Scene) Subscribe() chan Snapshot {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.snapshot()
	s.mu.Unlock()

	return ch
}

func (s *Scene) Unsubscribe(ch chan Snapshot) {
	s.mu.Lock()
	_, ok := s.subs[ch]
	delete(s.subs, ch)
	s.mu.Unlock()

	if ok {
		close(ch)
	}
}

func (s *Scene) add(l *Layer) ports.LayerID {
	l.ID = ports.LayerID(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers[l.ID] = l
	s.order = append(s.order, l.ID)
	s.changed()
	return l.ID
}

func (s *Scene) render(target string, kind ChartKind, values []ports.ChartValue) error {
	if target == "" {
		return errors.New("render chart: target must be non-empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(values) == 0 {
		delete(s.charts, target)
	} else {
		s.charts[target] = Chart{Kind: kind, Values: append([]ports.ChartValue(nil), values...)}
	}
	s.changed()
	return nil
}

// Must be called with s.mu held.
func (s *Scene) changed() {
	s.rev++
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshot()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Must be called with s.mu held.
func (s *Scene) snapshot() Snapshot {
	snap := Snapshot{
		Revision: s.rev,
		Busy:     s.busy,
		Layers:   make([]Layer, 0, len(s.order)),
		Charts:   make(map[string]Chart, len(s.charts)),
	}
	for _, id := range s.order {
		l := *s.layers[id]
		l.Path = append([]domain.Coordinates(nil), l.Path...)
		if l.Style != nil {
			st := *l.Style
			l.Style = &st
		}
		snap.Layers = append(snap.Layers, l)
	}
	for k, c := range s.charts {
		snap.Charts[k] = Chart{Kind: c.Kind, Values: append([]ports.ChartValue(nil), c.Values...)}
	}
	if s.result != nil {
		r := *s.result
		r.Routes = append([]ports.RouteCard(nil), s.result.Routes...)
		snap.Result = &r
	}
	return snap
}
