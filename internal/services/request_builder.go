package services

import (
	"fmt"
	"math"

	"route-visualizer/internal/domain"
)

// Upper bounds on fleet inputs; requests outside them are rejected, never
// allocated.
const (
	maxVehicles = 100
	maxCapacity = 1_000_000
)

// BuildRequest assembles an optimization request from the current depot and
// points and the user's fleet inputs. It performs no I/O.
//
// The fleet is params.VehicleCount independent copies of one Vehicle value.
// An empty strategy defaults to cost_optimized.
func BuildRequest(depot domain.GeoPoint, points []domain.GeoPoint, params domain.FleetParams) (*domain.OptimizationRequest, error) {
	if len(points) == 0 {
		return nil, &domain.ValidationError{Field: "points", Reason: "add delivery points first"}
	}

	if params.VehicleCount < 1 || params.VehicleCount > maxVehicles {
		return nil, &domain.ValidationError{
			Field:  "vehicle_count",
			Reason: fmt.Sprintf("must be between 1 and %d, got %d", maxVehicles, params.VehicleCount),
		}
	}

	if !depot.Coordinates().Finite() {
		return nil, &domain.ValidationError{Field: "depot", Reason: "coordinates must be finite numbers"}
	}

	if params.Capacity < 1 || params.Capacity > maxCapacity {
		return nil, &domain.ValidationError{
			Field:  "capacity",
			Reason: fmt.Sprintf("must be between 1 and %d, got %d", maxCapacity, params.Capacity),
		}
	}

	if math.IsNaN(params.CostPerKm) || math.IsInf(params.CostPerKm, 0) || params.CostPerKm < 0 {
		return nil, &domain.ValidationError{
			Field:  "cost_per_km",
			Reason: fmt.Sprintf("must be a non-negative number, got %v", params.CostPerKm),
		}
	}

	strategy := params.Strategy
	if strategy == "" {
		strategy = domain.StrategyCostOptimized
	}
	if !strategy.Valid() {
		return nil, &domain.ValidationError{
			Field:  "strategy",
			Reason: fmt.Sprintf("unknown strategy %q", strategy),
		}
	}

	template := domain.Vehicle{Capacity: params.Capacity, CostPerKm: params.CostPerKm}
	vehicles := make([]domain.Vehicle, params.VehicleCount)
	for i := range vehicles {
		vehicles[i] = template
	}

	return &domain.OptimizationRequest{
		Depot:      depot,
		Deliveries: append([]domain.GeoPoint(nil), points...),
		Vehicles:   vehicles,
		Strategy:   strategy,
	}, nil
}
