package service

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"dashboard/internal/metrics"
	"dashboard/internal/models"
)

// Tier names used in logs and metrics.
const (
	tierPrimary        = "primary"
	tierDomainEndpoint = "domain_endpoint"
	tierHybrid         = "hybrid_fallback"
)

var defaultModels = []string{models.ModelSynthetic, models.ModelDomainAware}

// predictionTier is one request in a fallback chain.
type predictionTier struct {
	name string
	call func(ctx context.Context, req models.PredictRequest) (*models.Prediction, error)
	// modelType, when set, replaces the requested model type for this tier.
	modelType string
	// relabel, when set, overwrites model_type on a successful result.
	relabel string
}

func (s *DashboardService) predictionChain(modelType string) []predictionTier {
	if modelType != models.ModelDomainAware {
		return []predictionTier{
			{name: tierPrimary, call: s.models.Predict},
		}
	}

	return []predictionTier{
		{name: tierPrimary, call: s.models.Predict},
		{name: tierDomainEndpoint, call: s.models.DomainPredict},
		{
			name:      tierHybrid,
			call:      s.models.Predict,
			modelType: models.ModelHybrid,
			relabel:   models.ModelDomainAwareFallback,
		},
	}
}

// PredictSentiment asks the model service for the sentiment of text.
//
// For the "domain_aware" model the request falls back, in order, to the
// primary endpoint, the dedicated domain endpoint, and finally the primary
// endpoint with the "hybrid" model, whose result is labelled
// "domain_aware (fallback to hybrid)". Each tier runs only if the previous
// one failed. Other model types get a single request.
//
// If every tier fails a neutral prediction with zero confidence and the last
// error message is returned.
func (s *DashboardService) PredictSentiment(ctx context.Context, text, modelType string, storeForFeedback bool) models.Prediction {
	req := models.PredictRequest{
		Text:             text,
		ModelType:        modelType,
		StoreForFeedback: storeForFeedback,
	}

	s.logger.Info("Sending prediction request",
		zap.String("model_type", modelType),
		zap.Bool("store_for_feedback", storeForFeedback))

	var lastErr error
	for _, tier := range s.predictionChain(modelType) {
		tierReq := req
		if tier.modelType != "" {
			tierReq.ModelType = tier.modelType
		}

		prediction, err := tier.call(ctx, tierReq)
		if err != nil {
			metrics.PredictionAttempts.WithLabelValues(tier.name, "failure").Inc()
			s.logger.Warn("Prediction request failed",
				zap.String("tier", tier.name),
				zap.String("model_type", tierReq.ModelType),
				zap.Error(err))
			lastErr = err
			continue
		}
		metrics.PredictionAttempts.WithLabelValues(tier.name, "success").Inc()

		if tier.relabel != "" {
			prediction.ModelType = tier.relabel
		}

		outcome := "ok"
		if tier.name != tierPrimary {
			outcome = "fallback"
		}
		metrics.PredictionOutcomes.WithLabelValues(modelLabel(modelType), outcome).Inc()

		s.logger.Info("Received prediction",
			zap.String("tier", tier.name),
			zap.String("model_type", prediction.ModelType),
			zap.String("sentiment", prediction.Sentiment),
			zap.Float64("confidence", prediction.Confidence))
		return *prediction
	}

	metrics.PredictionOutcomes.WithLabelValues(modelLabel(modelType), "degraded").Inc()
	s.logger.Error("Error getting prediction",
		zap.String("model_type", modelType),
		zap.Error(lastErr))

	return models.Prediction{
		Sentiment:      models.LabelNeutral,
		SentimentValue: 0,
		Confidence:     0,
		Text:           text,
		ModelType:      modelLabel(modelType),
		Error:          lastErr.Error(),
	}
}

// GetAvailableModels lists the service's models. "domain_aware" is always
// offered, and a static list is returned when the service is unreachable.
func (s *DashboardService) GetAvailableModels(ctx context.Context) []string {
	available, err := s.models.ListModels(ctx)
	if err != nil {
		s.degrade("get_available_models", "Error getting available models", err)
		return slices.Clone(defaultModels)
	}

	available = slices.Clone(available)
	if !slices.Contains(available, models.ModelDomainAware) {
		available = append(available, models.ModelDomainAware)
	}

	s.logger.Info("Available models", zap.Strings("models", available))
	return available
}

// CompareModels runs text through every model of the service.
func (s *DashboardService) CompareModels(ctx context.Context, text string) models.ModelComparison {
	comparison, err := s.models.Compare(ctx, text)
	if err != nil {
		s.degrade("compare_models", "Error comparing models", err)
		return models.ModelComparison{
			Text:   text,
			Models: map[string]models.Prediction{},
			Count:  0,
			Error:  err.Error(),
		}
	}

	s.logger.Info("Received model comparison", zap.Int("count", comparison.Count))
	return *comparison
}

func modelLabel(modelType string) string {
	if modelType == "" {
		return models.ModelUnknown
	}
	return modelType
}
