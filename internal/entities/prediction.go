package entities

type ConditionPrediction struct {
	Disease     string  `json:"disease"`
	Probability float64 `json:"probability"`
	Description string  `json:"description,omitempty"`
}

type PredictionResult struct {
	Symptoms    []string              `json:"symptoms"`
	Predictions []ConditionPrediction `json:"predictions"`
}
