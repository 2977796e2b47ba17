package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dashboard/internal/metrics"
	"dashboard/internal/models"
	"dashboard/internal/repository"
)

// ModelService is the prediction service as seen by the dashboard.
type ModelService interface {
	Predict(ctx context.Context, req models.PredictRequest) (*models.Prediction, error)
	DomainPredict(ctx context.Context, req models.PredictRequest) (*models.Prediction, error)
	ListModels(ctx context.Context) ([]string, error)
	Compare(ctx context.Context, text string) (*models.ModelComparison, error)
}

// IncidentFeed is the raw incident API.
type IncidentFeed interface {
	FetchIncidents(ctx context.Context, count int) ([]models.FeedIncident, error)
}

// DashboardService prepares incident, prediction and trend data for the
// dashboard. None of its methods return errors: upstream failures are logged
// and an empty, default or synthetic value of the normal shape is returned.
// It holds no per-request state and is safe for concurrent use.
type DashboardService struct {
	incidents repository.IncidentRepository
	models    ModelService
	feed      IncidentFeed
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a DashboardService.
type Option func(*DashboardService)

// WithClock overrides the time source used for "today" and "current month".
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) {
		s.now = now
	}
}

func NewDashboardService(
	incidents repository.IncidentRepository,
	modelService ModelService,
	feed IncidentFeed,
	logger *zap.Logger,
	opts ...Option,
) *DashboardService {
	s := &DashboardService{
		incidents: incidents,
		models:    modelService,
		feed:      feed,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// degrade records an absorbed failure.
func (s *DashboardService) degrade(operation, msg string, err error) {
	metrics.DegradedResponses.WithLabelValues(operation).Inc()
	s.logger.Error(msg, zap.String("operation", operation), zap.Error(err))
}
