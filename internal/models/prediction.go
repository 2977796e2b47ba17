package models

// Model identifiers with special handling in the dashboard.
const (
	ModelDomainAware         = "domain_aware"
	ModelHybrid              = "hybrid"
	ModelSynthetic           = "synthetic"
	ModelUnknown             = "unknown"
	ModelDomainAwareFallback = "domain_aware (fallback to hybrid)"
)

// PredictRequest is the payload sent to the prediction endpoints.
type PredictRequest struct {
	Text             string `json:"text"`
	ModelType        string `json:"model_type,omitempty"`
	StoreForFeedback bool   `json:"store_for_feedback"`
}

// Prediction is a sentiment prediction for a single text.
type Prediction struct {
	Sentiment      string  `json:"sentiment"`
	SentimentValue int     `json:"sentiment_value"`
	Confidence     float64 `json:"confidence"`
	Text           string  `json:"text"`
	ModelType      string  `json:"model_type"`
	Error          string  `json:"error,omitempty"`
}

// ModelComparison holds per-model predictions for one text.
type ModelComparison struct {
	Text   string                `json:"text"`
	Models map[string]Prediction `json:"models"`
	Count  int                   `json:"count"`
	Error  string                `json:"error,omitempty"`
}
