package handlers

import (
	"errors"
	"log"
	"net/http"

	"route-visualizer/internal/api/dto"
	"route-visualizer/internal/domain"
	"route-visualizer/internal/platform/obs"
	"route-visualizer/internal/services"
)

// PointHandler exposes the delivery point collection and the depot.
type PointHandler struct {
	Session *services.Session
}

func (h *PointHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, dto.NewListPointsResponse(h.Session.Depot(), h.Session.Points()))
}

// Add appends one random point near the depot.
func (h *PointHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, err := h.Session.AddPoint()
	if err != nil {
		// The point is stored; only its marker is missing.
		log.Printf("req_id=%s add point: %v", obs.RequestID(r.Context()), err)
		WriteError(w, r, http.StatusInternalServerError, "point added but the map could not be updated")
		return
	}

	WriteJSON(w, r, http.StatusCreated, dto.NewPointResponse(p))
}

func (h *PointHandler) LoadSample(w http.ResponseWriter, r *http.Request) {
	points, err := h.Session.LoadSample()
	if err != nil {
		log.Printf("req_id=%s load sample: %v", obs.RequestID(r.Context()), err)
		WriteError(w, r, http.StatusInternalServerError, "sample loaded but the map could not be updated")
		return
	}

	WriteJSON(w, r, http.StatusOK, dto.NewListPointsResponse(h.Session.Depot(), points))
}

func (h *PointHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Clear(); err != nil {
		log.Printf("req_id=%s clear points: %v", obs.RequestID(r.Context()), err)
		WriteError(w, r, http.StatusInternalServerError, "points cleared but the map could not be updated")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PointHandler) GetDepot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, dto.NewDepotResponse(h.Session.Depot()))
}

func (h *PointHandler) SetDepot(w http.ResponseWriter, r *http.Request) {
	var req dto.DepotRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Lat == nil || req.Lng == nil {
		WriteError(w, r, http.StatusBadRequest, "lat and lng are required")
		return
	}

	depot := domain.GeoPoint{Name: req.Name, Lat: *req.Lat, Lng: *req.Lng}
	if err := h.Session.SetDepot(depot); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			WriteError(w, r, http.StatusBadRequest, ve.Error())
			return
		}
		log.Printf("req_id=%s set depot: %v", obs.RequestID(r.Context()), err)
		WriteError(w, r, http.StatusInternalServerError, "depot moved but the map could not be updated")
		return
	}

	WriteJSON(w, r, http.StatusOK, dto.NewDepotResponse(h.Session.Depot()))
}
