package services

import (
	"context"
	"errors"
	"testing"

	"route-visualizer/internal/adapters/optimizer"
	"route-visualizer/internal/adapters/scene"
	"route-visualizer/internal/config"
	"route-visualizer/internal/domain"
	"route-visualizer/internal/ports"
)

// funcOptimizer lets a test decide per call what the optimizer does.
type funcOptimizer func(ctx context.Context, req *domain.OptimizationRequest) (*domain.OptimizationResult, error)

func (f funcOptimizer) Submit(ctx context.Context, req *domain.OptimizationRequest) (*domain.OptimizationResult, error) {
	return f(ctx, req)
}

// busyRecorder forwards to the scene and records every transition.
type busyRecorder struct {
	*scene.Scene
	calls []bool
}

func (b *busyRecorder) SetBusy(busy bool) {
	b.calls = append(b.calls, busy)
	b.Scene.SetBusy(busy)
}

type sessionFixture struct {
	session *Session
	scene   *scene.Scene
	busy    *busyRecorder
}

func newSessionFixture(t *testing.T, opt ports.Optimizer) *sessionFixture {
	t.Helper()

	sc := scene.New()
	busy := &busyRecorder{Scene: sc}

	renderer, err := NewMapRenderer(sc, config.DefaultPalette)
	if err != nil {
		t.Fatalf("NewMapRenderer: %v", err)
	}
	presenter := NewResultPresenter(renderer, sc, sc)
	s := NewSession(newTestStore(), renderer, presenter, opt, busy)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	return &sessionFixture{session: s, scene: sc, busy: busy}
}

func (f *sessionFixture) counts() (markers, polylines int) {
	snap := f.scene.Snapshot()
	return snap.Count(scene.KindMarker), snap.Count(scene.KindPolyline)
}

func TestSession_EndToEnd(t *testing.T) {
	mock := optimizer.NewMockOptimizer(twoRouteResult())
	f := newSessionFixture(t, mock)

	if m, p := f.counts(); m != 1 || p != 0 {
		t.Fatalf("expected only depot after Init, got markers=%d polylines=%d", m, p)
	}

	if _, err := f.session.LoadSample(); err != nil {
		t.Fatalf("LoadSample: %v", err)
	}
	if m, p := f.counts(); m != 6 || p != 0 {
		t.Fatalf("expected 6 markers before optimize, got markers=%d polylines=%d", m, p)
	}

	res, err := f.session.Optimize(context.Background(), domain.FleetParams{VehicleCount: 2, Capacity: 300, CostPerKm: 0.5})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(res.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(res.Routes))
	}

	if m, p := f.counts(); m != 6 || p != 2 {
		t.Fatalf("expected 6 markers and 2 polylines, got markers=%d polylines=%d", m, p)
	}

	snap := f.scene.Snapshot()
	if snap.Result == nil || snap.Result.Summary.TotalCost != "$100.00" {
		t.Fatalf("result panel not shown: %+v", snap.Result)
	}
	if len(snap.Charts[CostChartTarget].Values) != 4 {
		t.Fatalf("cost chart not rendered: %+v", snap.Charts)
	}
	if snap.Busy {
		t.Fatalf("busy indicator still raised")
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 submitted request, got %d", len(reqs))
	}
	if len(reqs[0].Vehicles) != 2 || len(reqs[0].Deliveries) != 5 || reqs[0].Strategy != domain.StrategyCostOptimized {
		t.Fatalf("unexpected request %+v", reqs[0])
	}
	if f.session.LastResult() == nil {
		t.Fatalf("expected last result to be kept")
	}
	if len(f.busy.calls) != 2 || !f.busy.calls[0] || f.busy.calls[1] {
		t.Fatalf("expected busy true then false, got %v", f.busy.calls)
	}
}

func TestSession_ValidationBlocksSubmit(t *testing.T) {
	mock := optimizer.NewMockOptimizer(twoRouteResult())
	f := newSessionFixture(t, mock)

	_, err := f.session.Optimize(context.Background(), domain.FleetParams{VehicleCount: 2, Capacity: 300, CostPerKm: 0.5})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(mock.Requests()) != 0 {
		t.Fatalf("request submitted despite validation error")
	}
	if len(f.busy.calls) != 0 {
		t.Fatalf("busy indicator touched: %v", f.busy.calls)
	}
}

func TestSession_OptimizationErrorKeepsViews(t *testing.T) {
	fail := false
	opt := funcOptimizer(func(ctx context.Context, req *domain.OptimizationRequest) (*domain.OptimizationResult, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return twoRouteResult(), nil
	})
	f := newSessionFixture(t, opt)
	params := domain.FleetParams{VehicleCount: 2, Capacity: 300, CostPerKm: 0.5}

	if _, err := f.session.LoadSample(); err != nil {
		t.Fatalf("LoadSample: %v", err)
	}
	if _, err := f.session.Optimize(context.Background(), params); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	before := f.scene.Snapshot()

	fail = true
	_, err := f.session.Optimize(context.Background(), params)
	var oe *domain.OptimizationError
	if !errors.As(err, &oe) {
		t.Fatalf("expected OptimizationError, got %v", err)
	}

	after := f.scene.Snapshot()
	if after.Count(scene.KindPolyline) != 2 || after.Result == nil ||
		after.Result.Summary != before.Result.Summary {
		t.Fatalf("views changed after optimization error")
	}
	if after.Busy {
		t.Fatalf("busy indicator not released after error")
	}
	if f.session.LastResult() == nil {
		t.Fatalf("previous result dropped after optimization error")
	}
}

func TestSession_PresentationErrorKeepsPoints(t *testing.T) {
	bad := twoRouteResult()
	bad.Routes[0].Stops = []int{0, 9, 0}
	f := newSessionFixture(t, optimizer.NewMockOptimizer(bad))

	if _, err := f.session.LoadSample(); err != nil {
		t.Fatalf("LoadSample: %v", err)
	}

	_, err := f.session.Optimize(context.Background(), domain.FleetParams{VehicleCount: 2, Capacity: 300, CostPerKm: 0.5})
	var pe *domain.PresentationError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PresentationError, got %v", err)
	}

	if n := len(f.session.Points()); n != 5 {
		t.Fatalf("expected points untouched, got %d", n)
	}
	if m, p := f.counts(); m != 6 || p != 0 {
		t.Fatalf("expected markers kept and no routes, got markers=%d polylines=%d", m, p)
	}
	if f.scene.Snapshot().Result != nil || f.session.LastResult() != nil {
		t.Fatalf("expected no result after presentation error")
	}
	if f.scene.Snapshot().Busy {
		t.Fatalf("busy indicator not released after presentation error")
	}
}

func TestSession_PresentsRequestPoints(t *testing.T) {
	var f *sessionFixture
	opt := funcOptimizer(func(ctx context.Context, req *domain.OptimizationRequest) (*domain.OptimizationResult, error) {
		// Points change while the request is in flight.
		if err := f.session.Clear(); err != nil {
			t.Errorf("Clear: %v", err)
		}
		return twoRouteResult(), nil
	})
	f = newSessionFixture(t, opt)

	if _, err := f.session.LoadSample(); err != nil {
		t.Fatalf("LoadSample: %v", err)
	}
	if _, err := f.session.Optimize(context.Background(), domain.FleetParams{VehicleCount: 2, Capacity: 300, CostPerKm: 0.5}); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if _, p := f.counts(); p != 2 {
		t.Fatalf("expected routes drawn against the request points, got %d polylines", p)
	}
}

func TestSession_InvalidateClearsResult(t *testing.T) {
	f := newSessionFixture(t, optimizer.NewMockOptimizer(twoRouteResult()))

	if _, err := f.session.LoadSample(); err != nil {
		t.Fatalf("LoadSample: %v", err)
	}
	if _, err := f.session.Optimize(context.Background(), domain.FleetParams{VehicleCount: 2, Capacity: 300, CostPerKm: 0.5}); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if err := f.session.SetDepot(domain.GeoPoint{Name: "North", Lat: -1.2, Lng: 36.9}); err != nil {
		t.Fatalf("SetDepot: %v", err)
	}
	snap := f.scene.Snapshot()
	if snap.Count(scene.KindPolyline) != 0 || snap.Result != nil || len(snap.Charts) != 0 {
		t.Fatalf("expected result views cleared after depot move: %+v", snap)
	}
	if snap.Count(scene.KindMarker) != 6 {
		t.Fatalf("expected depot and 5 point markers, got %d", snap.Count(scene.KindMarker))
	}
	if f.session.LastResult() != nil {
		t.Fatalf("expected last result dropped")
	}

	if _, err := f.session.AddPoint(); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if m, _ := f.counts(); m != 7 {
		t.Fatalf("expected 7 markers after AddPoint, got %d", m)
	}

	if err := f.session.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if m, _ := f.counts(); m != 1 {
		t.Fatalf("expected only the depot after Clear, got %d markers", m)
	}
}

func TestSession_BusyHeldWhileAnyCallInFlight(t *testing.T) {
	f := newSessionFixture(t, optimizer.NewMockOptimizer(twoRouteResult()))

	r1 := f.session.acquireBusy()
	r2 := f.session.acquireBusy()
	r1()
	r1()
	if !f.scene.Snapshot().Busy {
		t.Fatalf("busy released while a call is still in flight")
	}
	r2()
	if f.scene.Snapshot().Busy {
		t.Fatalf("busy not released")
	}
	if len(f.busy.calls) != 2 {
		t.Fatalf("expected one raise and one release, got %v", f.busy.calls)
	}
}
