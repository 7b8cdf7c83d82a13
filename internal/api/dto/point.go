package dto

import "route-visualizer/internal/domain"

type PointResponse struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Demand int     `json:"demand"`
}

type ListPointsResponse struct {
	Depot  DepotResponse   `json:"depot"`
	Points []PointResponse `json:"points"`
}

// Lat and Lng are pointers so that a missing coordinate is not read as 0.
type DepotRequest struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type DepotResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func NewPointResponse(p domain.GeoPoint) PointResponse {
	return PointResponse{ID: p.ID, Name: p.Name, Lat: p.Lat, Lng: p.Lng, Demand: p.Demand}
}

func NewDepotResponse(p domain.GeoPoint) DepotResponse {
	return DepotResponse{Name: p.Name, Lat: p.Lat, Lng: p.Lng}
}

func NewListPointsResponse(depot domain.GeoPoint, points []domain.GeoPoint) ListPointsResponse {
	res := ListPointsResponse{
		Depot:  NewDepotResponse(depot),
		Points: make([]PointResponse, 0, len(points)),
	}
	for _, p := range points {
		res.Points = append(res.Points, NewPointResponse(p))
	}
	return res
}
