package samples

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"route-visualizer/internal/domain"
)

type PointSeed struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Demand int     `json:"demand"`
}

// Read a sample delivery point set from a JSON file.
// IDs are assigned by position; any id in the file is ignored.
func LoadJSON(jsonPath string) ([]domain.GeoPoint, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load sample: read %q: %w", jsonPath, err)
	}

	var data []PointSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load sample: parse json: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("load sample: %q contains no points", jsonPath)
	}

	points := make([]domain.GeoPoint, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("load sample: item at index %d: name cannot be empty", i+1)
		}

		if math.IsNaN(item.Lat) || math.IsInf(item.Lat, 0) || item.Lat < -90 || item.Lat > 90 {
			return nil, fmt.Errorf("load sample: item %q: invalid lat %v", name, item.Lat)
		}
		if math.IsNaN(item.Lng) || math.IsInf(item.Lng, 0) || item.Lng < -180 || item.Lng > 180 {
			return nil, fmt.Errorf("load sample: item %q: invalid lng %v", name, item.Lng)
		}

		if item.Demand < 0 {
			return nil, fmt.Errorf("load sample: item %q: demand must be >= 0, got %d", name, item.Demand)
		}

		points = append(points, domain.GeoPoint{
			ID:     i,
			Name:   name,
			Lat:    item.Lat,
			Lng:    item.Lng,
			Demand: item.Demand,
		})
	}

	return points, nil
}
