package services

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"route-visualizer/internal/domain"
)

const (
	// Random points are placed within ±pointSpread/2 degrees of the depot.
	pointSpread = 0.1
	minDemand   = 50
	maxDemand   = 200
)

// NairobiSample is the reference delivery point set loaded by LoadSample.
var NairobiSample = []domain.GeoPoint{
	{ID: 0, Name: "Westlands", Lat: -1.2636, Lng: 36.8078, Demand: 120},
	{ID: 1, Name: "Eastleigh", Lat: -1.2815, Lng: 36.8428, Demand: 85},
	{ID: 2, Name: "Karen", Lat: -1.3192, Lng: 36.7073, Demand: 95},
	{ID: 3, Name: "Parklands", Lat: -1.2626, Lng: 36.8273, Demand: 110},
	{ID: 4, Name: "South B", Lat: -1.3066, Lng: 36.8328, Demand: 140},
}

// GeoPointStore owns the depot and the ordered delivery points.
//
// Invariant: points[i].ID == i. The collection is append-only apart from the
// whole-collection LoadSample and Clear operations, so IDs stay stable and
// route stop indices can be mapped back to points.
type GeoPointStore struct {
	mu     sync.Mutex
	depot  domain.GeoPoint
	points []domain.GeoPoint
	sample []domain.GeoPoint
	rnd    *rand.Rand
}

// NewGeoPointStore creates an empty store. A nil rnd uses a randomly seeded
// source; a nil or empty sample uses NairobiSample.
func NewGeoPointStore(depot domain.GeoPoint, sample []domain.GeoPoint, rnd *rand.Rand) *GeoPointStore {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if len(sample) == 0 {
		sample = NairobiSample
	}

	return &GeoPointStore{
		depot:  depot,
		sample: reindex(sample),
		rnd:    rnd,
	}
}

func (s *GeoPointStore) Depot() domain.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depot
}

// SetDepot replaces the depot's working copy. Existing points keep their
// coordinates.
func (s *GeoPointStore) SetDepot(depot domain.GeoPoint) error {
	if !depot.Coordinates().Finite() {
		return &domain.ValidationError{Field: "depot", Reason: "coordinates must be finite numbers"}
	}

	s.mu.Lock()
	s.depot = depot
	s.mu.Unlock()
	return nil
}

// Points returns a copy of the delivery points in order.
func (s *GeoPointStore) Points() []domain.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.GeoPoint(nil), s.points...)
}

func (s *GeoPointStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}

// AddPoint appends a randomly placed point near the depot.
func (s *GeoPointStore) AddPoint() domain.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.points)
	p := domain.GeoPoint{
		ID:     n,
		Name:   fmt.Sprintf("Location %d", n+1),
		Lat:    s.depot.Lat + (s.rnd.Float64()-0.5)*pointSpread,
		Lng:    s.depot.Lng + (s.rnd.Float64()-0.5)*pointSpread,
		Demand: minDemand + s.rnd.IntN(maxDemand-minDemand),
	}

	s.points = append(s.points, p)
	return p
}

// LoadSample replaces the whole collection with the sample set and returns a
// copy of it. Derived map state built from the previous collection is stale
// afterwards.
func (s *GeoPointStore) LoadSample() []domain.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.points = append([]domain.GeoPoint(nil), s.sample...)
	return append([]domain.GeoPoint(nil), s.points...)
}

func (s *GeoPointStore) Clear() {
	s.mu.Lock()
	s.points = nil
	s.mu.Unlock()
}

// reindex copies points and assigns IDs by position.
func reindex(points []domain.GeoPoint) []domain.GeoPoint {
	out := make([]domain.GeoPoint, len(points))
	for i, p := range points {
		p.ID = i
		out[i] = p
	}
	return out
}
