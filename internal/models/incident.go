package models

import (
	"database/sql"
	"time"
)

// Sentiment labels derived from the numeric sentiment score.
const (
	LabelPositive    = "positive"
	LabelNeutral     = "neutral"
	LabelNegative    = "negative"
	LabelNotAnalyzed = "not analyzed"
)

// RawIncident is an incident row as stored in the 'incidents' table.
// Timestamp is kept as text and parsed by the dashboard service.
type RawIncident struct {
	ID        int64         `db:"id" json:"id"`
	Timestamp string        `db:"timestamp" json:"timestamp"`
	Text      string        `db:"text" json:"text"`
	Sentiment sql.NullInt64 `db:"sentiment" json:"-"`
	Source    string        `db:"source" json:"source"`
}

// Incident is a normalized incident with derived date and sentiment label.
type Incident struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Text           string    `json:"text"`
	Sentiment      *int      `json:"sentiment"`
	Source         string    `json:"source"`
	Date           string    `json:"date"` // YYYY-MM-DD
	SentimentLabel string    `json:"sentiment_label"`
}

// RecentIncident is an Incident with a display timestamp.
type RecentIncident struct {
	Incident
	FormattedTime string `json:"formatted_time"`
}

// FeedIncident is one record of the raw incident API, kept exactly as
// received. Numbers decode as json.Number so ids and scores re-encode
// verbatim.
type FeedIncident map[string]any

// SentimentStats is the aggregate sentiment summary of the store.
// Total is reported by the store and is not reconciled with the other counts.
type SentimentStats struct {
	Positive int `db:"positive" json:"positive"`
	Neutral  int `db:"neutral" json:"neutral"`
	Negative int `db:"negative" json:"negative"`
	Total    int `db:"total" json:"total"`
}

// SentimentLabel maps a nullable sentiment score to its label.
func SentimentLabel(score *int) string {
	if score == nil {
		return LabelNotAnalyzed
	}
	switch *score {
	case 1:
		return LabelPositive
	case 0:
		return LabelNeutral
	case -1:
		return LabelNegative
	default:
		return LabelNotAnalyzed
	}
}

// SentimentValue maps a label back to its numeric score. Unknown labels give 0.
func SentimentValue(label string) int {
	switch label {
	case LabelPositive:
		return 1
	case LabelNegative:
		return -1
	default:
		return 0
	}
}
