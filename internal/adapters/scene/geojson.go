package scene

import (
	"fmt"

	"route-visualizer/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection exports the map layers of a snapshot as GeoJSON.
// Markers become Points and route polylines become LineStrings, in layer
// order.
func (s Snapshot) FeatureCollection() (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for _, l := range s.Layers {
		var f *geojson.Feature

		switch l.Kind {
		case KindMarker:
			if len(l.Path) != 1 {
				return nil, fmt.Errorf("geojson: marker %s has %d coordinates", l.ID, len(l.Path))
			}
			f = geojson.NewFeature(toPoint(l.Path[0]))
		case KindPolyline:
			ls := make(orb.LineString, 0, len(l.Path))
			for _, c := range l.Path {
				ls = append(ls, toPoint(c))
			}
			f = geojson.NewFeature(ls)
		default:
			return nil, fmt.Errorf("geojson: layer %s has unknown kind %q", l.ID, l.Kind)
		}

		f.ID = string(l.ID)
		f.Properties["kind"] = string(l.Kind)
		if l.Label != "" {
			f.Properties["label"] = l.Label
		}
		if l.Style != nil {
			f.Properties["color"] = l.Style.Color
			f.Properties["width"] = l.Style.Width
			f.Properties["opacity"] = l.Style.Opacity
		}
		fc.Append(f)
	}

	return fc, nil
}

func toPoint(c domain.Coordinates) orb.Point {
	ll := c.CoordsToList()
	return orb.Point{ll[0], ll[1]}
}
