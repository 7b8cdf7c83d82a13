package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"route-visualizer/internal/domain"
	"route-visualizer/internal/platform/metrics"
	"route-visualizer/internal/platform/obs"
	"route-visualizer/internal/ports"
)

// Session is the application state of one visualizer: the point store, the
// map renderer, the result views and the optimizer they are wired to. All
// user actions go through it.
//
// Store mutations and the view updates that follow them are serialized by
// mu. The optimizer round trip runs outside the lock, so points may change
// while a request is in flight; the result is still presented against the
// points the request was built from.
type Session struct {
	mu        sync.Mutex
	store     *GeoPointStore
	renderer  *MapRenderer
	presenter *ResultPresenter
	optimizer ports.Optimizer

	busy     ports.BusyIndicator
	busyMu   sync.Mutex
	inFlight int

	last *domain.OptimizationResult
}

func NewSession(
	store *GeoPointStore,
	renderer *MapRenderer,
	presenter *ResultPresenter,
	optimizer ports.Optimizer,
	busy ports.BusyIndicator,
) *Session {
	return &Session{
		store:     store,
		renderer:  renderer,
		presenter: presenter,
		optimizer: optimizer,
		busy:      busy,
	}
}

// Init draws the depot and any existing points on an empty map.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redraw()
}

func (s *Session) Depot() domain.GeoPoint    { return s.store.Depot() }
func (s *Session) Points() []domain.GeoPoint { return s.store.Points() }

// LastResult returns the most recently presented result, or nil.
func (s *Session) LastResult() *domain.OptimizationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// AddPoint appends a random point and adds its marker. The point is kept even
// if the map could not be updated.
func (s *Session) AddPoint() (domain.GeoPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.store.AddPoint()
	if err := s.renderer.SyncMarkers(s.store.Points()); err != nil {
		return p, fmt.Errorf("add point: %w", err)
	}
	return p, nil
}

// LoadSample replaces all points with the sample set and rebuilds the map
// from scratch; routes and result views of the previous points are dropped.
func (s *Session) LoadSample() ([]domain.GeoPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := s.store.LoadSample()
	if err := s.invalidate(); err != nil {
		return points, fmt.Errorf("load sample: %w", err)
	}
	return points, nil
}

func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()
	if err := s.invalidate(); err != nil {
		return fmt.Errorf("clear points: %w", err)
	}
	return nil
}

// SetDepot moves the depot. Existing routes start at the old depot, so the
// map and result views are rebuilt.
func (s *Session) SetDepot(depot domain.GeoPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetDepot(depot); err != nil {
		return err
	}
	if err := s.invalidate(); err != nil {
		return fmt.Errorf("set depot: %w", err)
	}
	return nil
}

// Optimize builds a request from the current points, submits it and presents
// the result, strictly in that order.
//
// Errors are *domain.ValidationError (nothing submitted),
// *domain.OptimizationError (views unchanged) or *domain.PresentationError
// (result views cleared, points untouched).
func (s *Session) Optimize(ctx context.Context, params domain.FleetParams) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "session.Optimize")(&err)

	s.mu.Lock()
	depot, points := s.store.Depot(), s.store.Points()
	s.mu.Unlock()

	req, err := BuildRequest(depot, points, params)
	if err != nil {
		metrics.OptimizeCycles.WithLabelValues("invalid").Inc()
		return nil, err
	}

	release := s.acquireBusy()
	defer release()

	result, err := s.optimizer.Submit(ctx, req)
	if err != nil {
		metrics.OptimizeCycles.WithLabelValues("optimizer_error").Inc()
		var oerr *domain.OptimizationError
		if !errors.As(err, &oerr) {
			err = &domain.OptimizationError{Op: "submit", Err: err}
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.presenter.Present(result, req.Depot, req.Deliveries); err != nil {
		metrics.OptimizeCycles.WithLabelValues("presentation_error").Inc()
		s.last = nil
		return nil, err
	}

	s.last = result
	metrics.OptimizeCycles.WithLabelValues("ok").Inc()
	return result, nil
}

// acquireBusy raises the busy indicator and returns the func that lowers it.
// The indicator stays raised while any optimize call is in flight; release
// is safe to call more than once.
func (s *Session) acquireBusy() (release func()) {
	s.busyMu.Lock()
	s.inFlight++
	if s.inFlight == 1 && s.busy != nil {
		s.busy.SetBusy(true)
	}
	s.busyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.busyMu.Lock()
			defer s.busyMu.Unlock()
			s.inFlight--
			if s.inFlight == 0 && s.busy != nil {
				s.busy.SetBusy(false)
			}
		})
	}
}

// invalidate drops every view derived from the previous points and redraws.
// Must be called with s.mu held.
func (s *Session) invalidate() error {
	s.last = nil
	return errors.Join(s.presenter.Clear(), s.redraw())
}

// Must be called with s.mu held.
func (s *Session) redraw() error {
	if err := s.renderer.Reset(s.store.Depot()); err != nil {
		return err
	}
	return s.renderer.SyncMarkers(s.store.Points())
}
