package service

import (
	"clinicare/internal/apperrors"
	"clinicare/internal/entities"
)

// PredictionService is the disease-prediction collaborator: symptom set in,
// ranked condition probabilities out. The mock implementation returns canned
// results; a real inference service would sit behind the same interface.
type PredictionService interface {
	Predict(symptoms []string) (*entities.PredictionResult, error)
}

type mockPredictionService struct {
}

func NewMockPredictionService() PredictionService {
	return &mockPredictionService{}
}

var conditionDescriptions = map[string]string{
	"Common Cold":        "A viral infectious disease of the upper respiratory tract that primarily affects the nose.",
	"Seasonal Allergies": "An allergic reaction to airborne substances such as pollen that causes inflammation of the nose and respiratory tract.",
	"Sinusitis":          "Inflammation of the sinuses, typically caused by an infection or allergies.",
}

func (s *mockPredictionService) Predict(symptoms []string) (*entities.PredictionResult, error) {
	if len(symptoms) == 0 {
		return nil, apperrors.InvalidRequest("at least one symptom is required")
	}

	predictions := []entities.ConditionPrediction{
		{Disease: "Common Cold", Probability: 0.85},
		{Disease: "Seasonal Allergies", Probability: 0.65},
		{Disease: "Sinusitis", Probability: 0.48},
	}

	// Few symptoms lower the confidence, many raise it slightly.
	switch {
	case len(symptoms) <= 2:
		for i := range predictions {
			predictions[i].Probability = max(0.1, predictions[i].Probability-0.3)
		}
	case len(symptoms) >= 5:
		for i := range predictions {
			predictions[i].Probability = min(0.95, predictions[i].Probability+0.1)
		}
	}

	for i := range predictions {
		predictions[i].Description = conditionDescriptions[predictions[i].Disease]
	}

	return &entities.PredictionResult{Symptoms: symptoms, Predictions: predictions}, nil
}
