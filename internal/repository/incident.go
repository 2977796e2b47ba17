package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"dashboard/internal/models"
)

// IncidentRepository is the read side of the incident store.
type IncidentRepository interface {
	GetIncidents(ctx context.Context, limit int) ([]models.RawIncident, error)
	GetSentimentStats(ctx context.Context) (*models.SentimentStats, error)
}

type incidentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewIncidentRepository(db *sqlx.DB, logger *zap.Logger) IncidentRepository {
	return &incidentRepository{db: db, logger: logger}
}

// GetIncidents returns at most limit incidents, newest first.
func (r *incidentRepository) GetIncidents(ctx context.Context, limit int) ([]models.RawIncident, error) {
	query := r.db.Rebind(`
		SELECT id, timestamp, text, sentiment, source
		FROM incidents
		ORDER BY timestamp DESC
		LIMIT ?
	`)

	incidents := []models.RawIncident{}
	if err := r.db.SelectContext(ctx, &incidents, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}

	r.logger.Debug("Loaded incidents", zap.Int("limit", limit), zap.Int("count", len(incidents)))
	return incidents, nil
}

// GetSentimentStats counts incidents per sentiment score.
func (r *incidentRepository) GetSentimentStats(ctx context.Context) (*models.SentimentStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN sentiment = 1 THEN 1 ELSE 0 END), 0) AS positive,
			COALESCE(SUM(CASE WHEN sentiment = 0 THEN 1 ELSE 0 END), 0) AS neutral,
			COALESCE(SUM(CASE WHEN sentiment = -1 THEN 1 ELSE 0 END), 0) AS negative,
			COUNT(*) AS total
		FROM incidents
	`

	var stats models.SentimentStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to query sentiment stats: %w", err)
	}
	return &stats, nil
}
