package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"dashboard/internal/models"
)

// Incident read limits for the aggregated views.
const (
	trendIncidentLimit   = 1000
	monthlyIncidentLimit = 10000
)

// labelCounts is one pivoted row: sentiment label -> incident count.
type labelCounts map[string]int

// pivotByLabel groups incidents by key and counts each sentiment label.
// Incidents for which key reports false are skipped.
func pivotByLabel[K comparable](incidents []models.Incident, key func(models.Incident) (K, bool)) map[K]labelCounts {
	pivot := make(map[K]labelCounts)
	for _, incident := range incidents {
		k, ok := key(incident)
		if !ok {
			continue
		}
		counts, exists := pivot[k]
		if !exists {
			counts = make(labelCounts, 4)
			pivot[k] = counts
		}
		counts[incident.SentimentLabel]++
	}
	return pivot
}

// GetSentimentOverTime counts incidents per date and sentiment label for the
// last days days (dates on or after today minus days). Both the window and
// the incident dates are UTC calendar dates.
//
// The result is sparse: only dates that have at least one incident appear,
// in ascending order. Use GetSentimentByDayOfMonth for a gap-free calendar.
func (s *DashboardService) GetSentimentOverTime(ctx context.Context, days int) []models.DailySentiment {
	if days < 0 {
		s.degrade("sentiment_over_time", "Error generating sentiment trends", fmt.Errorf("negative window of %d days", days))
		return []models.DailySentiment{}
	}

	incidents := s.GetIncidents(ctx, trendIncidentLimit)
	if len(incidents) == 0 {
		return []models.DailySentiment{}
	}

	start := s.now().UTC().AddDate(0, 0, -days).Format(dateLayout)
	pivot := pivotByLabel(incidents, func(incident models.Incident) (string, bool) {
		// dates are YYYY-MM-DD, so string order is calendar order
		date := incident.Timestamp.UTC().Format(dateLayout)
		return date, date >= start
	})

	rows := make([]models.DailySentiment, 0, len(pivot))
	for date, counts := range pivot {
		rows = append(rows, models.DailySentiment{
			Date:        date,
			Positive:    counts[models.LabelPositive],
			Neutral:     counts[models.LabelNeutral],
			Negative:    counts[models.LabelNegative],
			NotAnalyzed: counts[models.LabelNotAnalyzed],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	s.logger.Info("Generated sentiment trends", zap.Int("days", days), zap.Int("rows", len(rows)))
	return rows
}

// GetSentimentByDayOfMonth counts positive, neutral and negative incidents for
// each day of the given month. Zero month or year means the current one.
// Days are UTC calendar days.
//
// The result always has one row per calendar day of the month, in ascending
// order, with zero counts for days without incidents. An invalid month or
// year yields an empty slice.
func (s *DashboardService) GetSentimentByDayOfMonth(ctx context.Context, month, year int) []models.DaySentiment {
	now := s.now().UTC()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 || year < 1 {
		s.degrade("sentiment_by_day_of_month", "Error generating daily sentiment trends",
			fmt.Errorf("invalid month %d-%02d", year, month))
		return []models.DaySentiment{}
	}

	incidents := s.GetIncidents(ctx, monthlyIncidentLimit)
	pivot := pivotByLabel(incidents, func(incident models.Incident) (int, bool) {
		ts := incident.Timestamp.UTC()
		return ts.Day(), ts.Year() == year && int(ts.Month()) == month
	})

	if len(pivot) == 0 {
		s.logger.Warn("No data found for month", zap.Int("year", year), zap.Int("month", month))
	}

	// left join of the pivot onto every day of the month
	n := daysInMonth(year, time.Month(month))
	rows := make([]models.DaySentiment, n)
	for i := range rows {
		day := i + 1
		counts := pivot[day]
		rows[i] = models.DaySentiment{
			Day:      day,
			Positive: counts[models.LabelPositive],
			Neutral:  counts[models.LabelNeutral],
			Negative: counts[models.LabelNegative],
		}
	}

	s.logger.Info("Generated daily sentiment trends", zap.Int("year", year), zap.Int("month", month))
	return rows
}

// daysInMonth is the day before the first of the following month; time.Date
// normalizes month 13 to January of the next year.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
