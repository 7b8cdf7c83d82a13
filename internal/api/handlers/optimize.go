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

type OptimizeHandler struct {
	Session  *services.Session
	Defaults domain.FleetParams
}

// Optimize runs one build, submit and present cycle for the current points.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if err := decodeBody(r, &req, true); err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Session.Optimize(r.Context(), req.Params(h.Defaults))
	if err != nil {
		status, msg := optimizeFailure(err)
		if status >= http.StatusInternalServerError {
			log.Printf("req_id=%s optimize failed: %v", obs.RequestID(r.Context()), err)
		}
		WriteError(w, r, status, msg)
		return
	}

	WriteJSON(w, r, http.StatusOK, result)
}

// Last returns the most recently presented result.
func (h *OptimizeHandler) Last(w http.ResponseWriter, r *http.Request) {
	result := h.Session.LastResult()
	if result == nil {
		WriteError(w, r, http.StatusNotFound, "no optimization result yet")
		return
	}
	WriteJSON(w, r, http.StatusOK, result)
}

func optimizeFailure(err error) (int, string) {
	var (
		ve *domain.ValidationError
		oe *domain.OptimizationError
		pe *domain.PresentationError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.As(err, &oe):
		return http.StatusBadGateway, oe.Error()
	case errors.As(err, &pe):
		return http.StatusInternalServerError, "the optimization result could not be displayed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
