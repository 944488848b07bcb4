package api

import (
	"encoding/json"
	"net/http"

	"clinicare/internal/service"
)

type PredictionHandler struct {
	Service service.PredictionService
}

func NewPredictionHandler(svc service.PredictionService) *PredictionHandler {
	return &PredictionHandler{Service: svc}
}

func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Predict(req.Symptoms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
