package dto

import "route-visualizer/internal/domain"

// OptimizeRequest carries the fleet parameters of one optimize call. Absent
// fields fall back to the configured defaults; present fields are validated
// as given.
type OptimizeRequest struct {
	VehicleCount *int     `json:"vehicle_count"`
	Capacity     *int     `json:"capacity"`
	CostPerKm    *float64 `json:"cost_per_km"`
	Strategy     string   `json:"strategy"`
}

// Params merges the request over defaults.
func (r OptimizeRequest) Params(defaults domain.FleetParams) domain.FleetParams {
	p := defaults
	if r.VehicleCount != nil {
		p.VehicleCount = *r.VehicleCount
	}
	if r.Capacity != nil {
		p.Capacity = *r.Capacity
	}
	if r.CostPerKm != nil {
		p.CostPerKm = *r.CostPerKm
	}
	if r.Strategy != "" {
		p.Strategy = domain.Strategy(r.Strategy)
	}
	return p
}
