package ports

import "route-visualizer/internal/domain"

// LayerID identifies a layer added to a MapWidget.
type LayerID string

type PolylineStyle struct {
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

// Boundary to the map widget. Only the map renderer calls it; callers must
// serialize access.
type MapWidget interface {
	AddMarker(at domain.Coordinates, label string) (LayerID, error)
	AddPolyline(path []domain.Coordinates, style PolylineStyle) (LayerID, error)
	RemoveLayer(id LayerID) error
}
