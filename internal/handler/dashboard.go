package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashboard/internal/models"
)

// Defaults for omitted query parameters.
const (
	defaultIncidentLimit = 100
	defaultRecentLimit   = 10
	defaultRawCount      = 20
	defaultTrendDays     = 30
)

// DashboardService is the data layer served by DashboardHandler.
type DashboardService interface {
	GetIncidents(ctx context.Context, limit int) []models.Incident
	GetRecentIncidents(ctx context.Context, limit int) []models.RecentIncident
	FetchRawIncidents(ctx context.Context, count int) []models.FeedIncident
	GetSentimentStatistics(ctx context.Context) models.SentimentStats
	GetSentimentOverTime(ctx context.Context, days int) []models.DailySentiment
	GetSentimentByDayOfMonth(ctx context.Context, month, year int) []models.DaySentiment
	GetAvailableModels(ctx context.Context) []string
	PredictSentiment(ctx context.Context, text, modelType string, storeForFeedback bool) models.Prediction
	CompareModels(ctx context.Context, text string) models.ModelComparison
}

type DashboardHandler interface {
	GetIncidents(c *gin.Context)
	GetRecentIncidents(c *gin.Context)
	GetRawIncidents(c *gin.Context)
	GetStats(c *gin.Context)
	GetTrends(c *gin.Context)
	GetMonthlyTrends(c *gin.Context)
	GetModels(c *gin.Context)
	Predict(c *gin.Context)
	Compare(c *gin.Context)
}

type dashboardHandler struct {
	service DashboardService
	logger  *zap.Logger
}

func NewDashboardHandler(service DashboardService, logger *zap.Logger) DashboardHandler {
	return &dashboardHandler{
		service: service,
		logger:  logger,
	}
}

// PredictRequest is the body of POST /api/predict. Empty or missing text is
// passed on to the service, which degrades instead of failing.
type PredictRequest struct {
	Text             string `json:"text"`
	ModelType        string `json:"model_type"`
	StoreForFeedback bool   `json:"store_for_feedback"`
}

// CompareRequest is the body of POST /api/compare.
type CompareRequest struct {
	Text string `json:"text"`
}

// intQuery reads an optional non-negative integer query parameter. On a
// malformed value it writes a 400 response and reports false.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return v, true
}

// GetIncidents handles GET /api/dashboard/incidents
// Query parameters:
// - limit: maximum number of incidents (default 100)
func (h *dashboardHandler) GetIncidents(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultIncidentLimit)
	if !ok {
		return
	}
	incidents := h.service.GetIncidents(c.Request.Context(), limit)
	c.JSON(http.StatusOK, gin.H{"incidents": incidents, "count": len(incidents)})
}

// GetRecentIncidents handles GET /api/dashboard/incidents/recent
func (h *dashboardHandler) GetRecentIncidents(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultRecentLimit)
	if !ok {
		return
	}
	incidents := h.service.GetRecentIncidents(c.Request.Context(), limit)
	c.JSON(http.StatusOK, gin.H{"incidents": incidents, "count": len(incidents)})
}

// GetRawIncidents handles GET /api/dashboard/incidents/raw
func (h *dashboardHandler) GetRawIncidents(c *gin.Context) {
	count, ok := intQuery(c, "count", defaultRawCount)
	if !ok {
		return
	}
	incidents := h.service.FetchRawIncidents(c.Request.Context(), count)
	c.JSON(http.StatusOK, gin.H{"incidents": incidents, "count": len(incidents)})
}

// GetStats handles GET /api/dashboard/stats
func (h *dashboardHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetSentimentStatistics(c.Request.Context()))
}

// GetTrends handles GET /api/dashboard/trends
// Query parameters:
// - days: size of the rolling window (default 30)
func (h *dashboardHandler) GetTrends(c *gin.Context) {
	days, ok := intQuery(c, "days", defaultTrendDays)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"days":   days,
		"trends": h.service.GetSentimentOverTime(c.Request.Context(), days),
	})
}

// GetMonthlyTrends handles GET /api/dashboard/trends/monthly
// Query parameters:
// - month: 1-12, current month when omitted
// - year: current year when omitted
func (h *dashboardHandler) GetMonthlyTrends(c *gin.Context) {
	month, ok := intQuery(c, "month", 0)
	if !ok {
		return
	}
	if month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month parameter"})
		return
	}
	year, ok := intQuery(c, "year", 0)
	if !ok {
		return
	}

	rows := h.service.GetSentimentByDayOfMonth(c.Request.Context(), month, year)
	c.JSON(http.StatusOK, gin.H{"days": rows, "count": len(rows)})
}

// GetModels handles GET /api/models
func (h *dashboardHandler) GetModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.service.GetAvailableModels(c.Request.Context())})
}

// Predict handles POST /api/predict
func (h *dashboardHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind JSON for prediction", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prediction := h.service.PredictSentiment(c.Request.Context(), req.Text, req.ModelType, req.StoreForFeedback)
	c.JSON(http.StatusOK, prediction)
}

// Compare handles POST /api/compare
func (h *dashboardHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind JSON for model comparison", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.CompareModels(c.Request.Context(), req.Text))
}
