package handlers

import (
	"net/http"

	"chefcart-service/internal/api/dto"
	"chefcart-service/internal/domain"
	"chefcart-service/internal/services"
)

// DeliveryHandler answers serviceability and fee questions for a coordinate.
type DeliveryHandler struct {
	Evaluator *services.ZoneEvaluator
}

// Evaluate computes distance, serviceability, and the tiered delivery fee for
// a point. Advisory only; checkout confirms the fee server-side.
func (h *DeliveryHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluatePointRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		writeError(w, r, http.StatusBadRequest, "latitude/longitude out of range")
		return
	}

	eval := h.Evaluator.Evaluate(domain.Coordinates{Lat: req.Latitude, Lon: req.Longitude})

	writeJSON(w, r, http.StatusOK, dto.EvaluatePointResponse{
		Serviceable: eval.Serviceable,
		DistanceKm:  eval.DistanceKm,
		Fee:         eval.Fee,
		Message:     eval.Message,
	})
}
