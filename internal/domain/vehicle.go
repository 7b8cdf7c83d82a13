package domain

// Vehicle is a single fleet entry sent to the optimizer.
type Vehicle struct {
	Capacity  int     `json:"capacity"`
	CostPerKm float64 `json:"cost_per_km"`
}

// Strategy selects the optimizer's objective.
type Strategy string

const (
	StrategyCostOptimized Strategy = "cost_optimized"
	StrategyTimeOptimized Strategy = "time_optimized"
	StrategyBalanced      Strategy = "balanced"
	StrategyGreen         Strategy = "green"
)

// Valid reports whether s is one of the strategies the optimizer understands.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyCostOptimized, StrategyTimeOptimized, StrategyBalanced, StrategyGreen:
		return true
	}
	return false
}

// FleetParams are the user-supplied fleet inputs read at request construction.
// The fleet is homogeneous: one Vehicle template replicated VehicleCount times.
type FleetParams struct {
	VehicleCount int
	Capacity     int
	CostPerKm    float64
	Strategy     Strategy
}
