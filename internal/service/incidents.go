package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"dashboard/internal/models"
)

const (
	dateLayout    = "2006-01-02"
	displayLayout = "2006-01-02 15:04"
)

// Layouts accepted for stored timestamps. Layouts without a zone parse as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	dateLayout,
}

// GetIncidents returns up to limit normalized incidents. The limit is passed
// to the store as is. Any store error or unparseable timestamp yields an
// empty slice.
func (s *DashboardService) GetIncidents(ctx context.Context, limit int) []models.Incident {
	raw, err := s.incidents.GetIncidents(ctx, limit)
	if err != nil {
		s.degrade("get_incidents", "Error getting incidents from database", err)
		return []models.Incident{}
	}

	if len(raw) == 0 {
		s.logger.Warn("No incidents found in database")
		return []models.Incident{}
	}

	incidents, err := normalizeIncidents(raw)
	if err != nil {
		s.degrade("get_incidents", "Error getting incidents from database", err)
		return []models.Incident{}
	}

	s.logger.Info("Retrieved incidents from database", zap.Int("count", len(incidents)))
	return incidents
}

// GetSentimentStatistics returns the store's sentiment summary, or a zeroed
// summary when the store is unavailable.
func (s *DashboardService) GetSentimentStatistics(ctx context.Context) models.SentimentStats {
	stats, err := s.incidents.GetSentimentStats(ctx)
	if err != nil {
		s.degrade("get_sentiment_stats", "Error retrieving sentiment statistics", err)
		return models.SentimentStats{}
	}

	s.logger.Info("Retrieved sentiment statistics",
		zap.Int("positive", stats.Positive),
		zap.Int("neutral", stats.Neutral),
		zap.Int("negative", stats.Negative),
		zap.Int("total", stats.Total))
	return *stats
}

// GetRecentIncidents returns the limit most recent incidents, newest first,
// with a display timestamp.
func (s *DashboardService) GetRecentIncidents(ctx context.Context, limit int) []models.RecentIncident {
	if limit <= 0 {
		return []models.RecentIncident{}
	}

	incidents := s.GetIncidents(ctx, limit)
	if len(incidents) == 0 {
		return []models.RecentIncident{}
	}

	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].Timestamp.After(incidents[j].Timestamp)
	})
	if len(incidents) > limit {
		incidents = incidents[:limit]
	}

	recent := make([]models.RecentIncident, 0, len(incidents))
	for _, incident := range incidents {
		recent = append(recent, models.RecentIncident{
			Incident:      incident,
			FormattedTime: incident.Timestamp.Format(displayLayout),
		})
	}
	return recent
}

// FetchRawIncidents reads count incidents straight from the incident feed API.
func (s *DashboardService) FetchRawIncidents(ctx context.Context, count int) []models.FeedIncident {
	incidents, err := s.feed.FetchIncidents(ctx, count)
	if err != nil {
		s.degrade("fetch_raw_incidents", "Error fetching incidents from API", err)
		return []models.FeedIncident{}
	}
	if incidents == nil {
		return []models.FeedIncident{}
	}
	return incidents
}

func normalizeIncidents(raw []models.RawIncident) ([]models.Incident, error) {
	incidents := make([]models.Incident, 0, len(raw))
	for _, r := range raw {
		ts, err := parseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("incident %d: %w", r.ID, err)
		}

		var sentiment *int
		if r.Sentiment.Valid {
			v := int(r.Sentiment.Int64)
			sentiment = &v
		}

		incidents = append(incidents, models.Incident{
			ID:             r.ID,
			Timestamp:      ts,
			Text:           r.Text,
			Sentiment:      sentiment,
			Source:         r.Source,
			Date:           ts.Format(dateLayout),
			SentimentLabel: models.SentimentLabel(sentiment),
		})
	}
	return incidents, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}
