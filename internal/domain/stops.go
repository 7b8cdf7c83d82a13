package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStop is wrapped by errors for stop indices that name no point.
var ErrUnknownStop = errors.New("unknown stop")

// DepotStop is the stop index that denotes the depot in Route.Stops.
const DepotStop = 0

// StopToPointIndex maps a route stop index to an index into the delivery
// point slice. It reports false for the depot and for negative stops.
func StopToPointIndex(stop int) (int, bool) {
	if stop <= DepotStop {
		return 0, false
	}
	return stop - 1, true
}

// PointIndexToStop is the inverse of StopToPointIndex.
func PointIndexToStop(i int) int { return i + 1 }

// ResolveStop returns the point a stop index refers to: the depot for 0,
// points[k-1] for k > 0.
func ResolveStop(stop int, depot GeoPoint, points []GeoPoint) (GeoPoint, error) {
	if stop == DepotStop {
		return depot, nil
	}

	i, ok := StopToPointIndex(stop)
	if !ok {
		return GeoPoint{}, fmt.Errorf("resolve stop: invalid stop index %d: %w", stop, ErrUnknownStop)
	}
	if i >= len(points) {
		return GeoPoint{}, fmt.Errorf("resolve stop: stop %d refers to point %d but only %d points exist: %w", stop, i, len(points), ErrUnknownStop)
	}

	return points[i], nil
}

// ResolvePath resolves every stop of a route to coordinates, in order.
func ResolvePath(stops []int, depot GeoPoint, points []GeoPoint) ([]Coordinates, error) {
	path := make([]Coordinates, 0, len(stops))
	for pos, s := range stops {
		p, err := ResolveStop(s, depot, points)
		if err != nil {
			return nil, fmt.Errorf("resolve path: position %d: %w", pos, err)
		}
		path = append(path, p.Coordinates())
	}
	return path, nil
}
