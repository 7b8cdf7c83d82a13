package domain

// OptimizationRequest is the body of POST /api/optimize.
type OptimizationRequest struct {
	Depot      GeoPoint   `json:"depot"`
	Deliveries []GeoPoint `json:"deliveries"`
	Vehicles   []Vehicle  `json:"vehicles"`
	Strategy   Strategy   `json:"strategy"`
}

// Route is one vehicle tour returned by the optimizer.
//
// Stops holds stop indices: 0 is the depot, k > 0 is the delivery point with
// ID k-1. A well-formed route starts and ends at the depot.
type Route struct {
	VehicleID       int     `json:"vehicle_id"`
	Stops           []int   `json:"stops"`
	Distance        float64 `json:"distance"`
	Time            float64 `json:"time"`
	Load            int     `json:"load"`
	LoadUtilization float64 `json:"load_utilization"`
	CarbonKg        float64 `json:"carbon_kg,omitempty"`
}

// StopCount is the number of delivery stops, excluding both depot visits.
func (r Route) StopCount() int {
	if len(r.Stops) < 2 {
		return 0
	}
	return len(r.Stops) - 2
}

// Costs is the cost breakdown of a whole plan. Total is authoritative and is
// never recomputed from the components.
type Costs struct {
	Total       float64 `json:"total"`
	Fuel        float64 `json:"fuel"`
	Labor       float64 `json:"labor"`
	Maintenance float64 `json:"maintenance"`
	Carbon      float64 `json:"carbon"`
	Fixed       float64 `json:"fixed,omitempty"`
}

type Summary struct {
	TotalDistance         float64 `json:"total_distance"`
	TotalTime             float64 `json:"total_time"`
	VehiclesUsed          int     `json:"vehicles_used"`
	TotalCost             float64 `json:"total_cost,omitempty"`
	DeliveriesCompleted   int     `json:"deliveries_completed,omitempty"`
	AvgVehicleUtilization float64 `json:"avg_vehicle_utilization,omitempty"`
}

// OptimizationResult is the body of a successful POST /api/optimize response.
type OptimizationResult struct {
	Routes  []Route `json:"routes"`
	Costs   Costs   `json:"costs"`
	Summary Summary `json:"summary"`
}
