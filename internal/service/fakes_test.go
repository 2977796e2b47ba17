package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"dashboard/internal/models"
)

var errUpstream = errors.New("connection refused")

type fakeIncidentRepo struct {
	incidents []models.RawIncident
	stats     *models.SentimentStats
	err       error
	limits    []int
}

func (f *fakeIncidentRepo) GetIncidents(_ context.Context, limit int) ([]models.RawIncident, error) {
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	if limit >= 0 && limit < len(f.incidents) {
		return f.incidents[:limit], nil
	}
	return f.incidents, nil
}

func (f *fakeIncidentRepo) GetSentimentStats(context.Context) (*models.SentimentStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

type predictFunc func(ctx context.Context, req models.PredictRequest) (*models.Prediction, error)

type fakeModelService struct {
	predict       predictFunc
	domainPredict predictFunc
	listModels    func() ([]string, error)
	compare       func(text string) (*models.ModelComparison, error)

	calls []string // "<endpoint>:<model_type>"
}

func (f *fakeModelService) Predict(ctx context.Context, req models.PredictRequest) (*models.Prediction, error) {
	f.calls = append(f.calls, "predict:"+req.ModelType)
	if f.predict == nil {
		return nil, errUpstream
	}
	return f.predict(ctx, req)
}

func (f *fakeModelService) DomainPredict(ctx context.Context, req models.PredictRequest) (*models.Prediction, error) {
	f.calls = append(f.calls, "domain_predict:"+req.ModelType)
	if f.domainPredict == nil {
		return nil, errUpstream
	}
	return f.domainPredict(ctx, req)
}

func (f *fakeModelService) ListModels(context.Context) ([]string, error) {
	if f.listModels == nil {
		return nil, errUpstream
	}
	return f.listModels()
}

func (f *fakeModelService) Compare(_ context.Context, text string) (*models.ModelComparison, error) {
	if f.compare == nil {
		return nil, errUpstream
	}
	return f.compare(text)
}

type fakeFeed struct {
	incidents []models.FeedIncident
	err       error
}

func (f *fakeFeed) FetchIncidents(context.Context, int) ([]models.FeedIncident, error) {
	return f.incidents, f.err
}

// fixedNow is "today" for every service test.
var fixedNow = time.Date(2024, time.January, 20, 15, 0, 0, 0, time.UTC)

type testEnv struct {
	svc    *DashboardService
	repo   *fakeIncidentRepo
	models *fakeModelService
	feed   *fakeFeed
	logs   *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	env := &testEnv{
		repo:   &fakeIncidentRepo{},
		models: &fakeModelService{},
		feed:   &fakeFeed{},
		logs:   logs,
	}
	env.svc = NewDashboardService(env.repo, env.models, env.feed, zap.New(core),
		WithClock(func() time.Time { return fixedNow }))
	return env
}

func raw(id int64, ts string, sentiment *int64) models.RawIncident {
	r := models.RawIncident{ID: id, Timestamp: ts, Text: "incident", Source: "test"}
	if sentiment != nil {
		r.Sentiment = sql.NullInt64{Int64: *sentiment, Valid: true}
	}
	return r
}

func score(v int64) *int64 { return &v }

func prediction(sentiment string, value int, confidence float64, modelType string) *models.Prediction {
	return &models.Prediction{
		Sentiment:      sentiment,
		SentimentValue: value,
		Confidence:     confidence,
		Text:           "text",
		ModelType:      modelType,
	}
}
