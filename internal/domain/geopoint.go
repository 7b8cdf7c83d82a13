package domain

// GeoPoint is either the depot or a delivery point.
//
// For delivery points ID is the zero-based position of the point in the
// delivery sequence at creation time and never changes afterwards; route stop
// indices are mapped back to points through it (see ResolveStop).
// The depot carries a name and coordinates only.
type GeoPoint struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Demand int     `json:"demand"`
}

func (p GeoPoint) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lng: p.Lng}
}
