package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	logger := zap.NewNop()

	db, err := NewDB(DriverSQLite, ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := MigrateDB(db, logger); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	return db
}

func seed(t *testing.T, db *sqlx.DB, ts, text string, sentiment any) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO incidents (timestamp, text, sentiment, source) VALUES (?, ?, ?, 'test')`, ts, text, sentiment)
	if err != nil {
		t.Fatalf("seed incident: %v", err)
	}
}

func TestIncidentRepository_GetIncidents(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, "2024-01-05T10:00:00Z", "first", 1)
	seed(t, db, "2024-01-07T09:30:00Z", "third", nil)
	seed(t, db, "2024-01-06T08:15:00Z", "second", -1)

	repo := NewIncidentRepository(db, zap.NewNop())

	incidents, err := repo.GetIncidents(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetIncidents: %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("expected limit to cap rows at 2, got %d", len(incidents))
	}
	if incidents[0].Text != "third" || incidents[1].Text != "second" {
		t.Fatalf("unexpected order: %q, %q", incidents[0].Text, incidents[1].Text)
	}
	if incidents[0].Sentiment.Valid {
		t.Fatalf("expected NULL sentiment for %q", incidents[0].Text)
	}
	if !incidents[1].Sentiment.Valid || incidents[1].Sentiment.Int64 != -1 {
		t.Fatalf("unexpected sentiment %+v", incidents[1].Sentiment)
	}
	if incidents[0].Source != "test" || incidents[0].Timestamp != "2024-01-07T09:30:00Z" {
		t.Fatalf("fields not passed through: %+v", incidents[0])
	}
}

func TestIncidentRepository_GetIncidentsEmpty(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t), zap.NewNop())

	incidents, err := repo.GetIncidents(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetIncidents: %v", err)
	}
	if len(incidents) != 0 {
		t.Fatalf("expected no incidents, got %d", len(incidents))
	}
}

func TestIncidentRepository_GetSentimentStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewIncidentRepository(db, zap.NewNop())

	stats, err := repo.GetSentimentStats(context.Background())
	if err != nil {
		t.Fatalf("GetSentimentStats on empty table: %v", err)
	}
	if stats.Positive != 0 || stats.Neutral != 0 || stats.Negative != 0 || stats.Total != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}

	seed(t, db, "2024-01-05T10:00:00Z", "a", 1)
	seed(t, db, "2024-01-05T11:00:00Z", "b", 1)
	seed(t, db, "2024-01-05T12:00:00Z", "c", 0)
	seed(t, db, "2024-01-05T13:00:00Z", "d", -1)
	seed(t, db, "2024-01-05T14:00:00Z", "e", nil)

	stats, err = repo.GetSentimentStats(context.Background())
	if err != nil {
		t.Fatalf("GetSentimentStats: %v", err)
	}
	if stats.Positive != 2 || stats.Neutral != 1 || stats.Negative != 1 || stats.Total != 5 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestIncidentRepository_ClosedDB(t *testing.T) {
	db := newTestDB(t)
	repo := NewIncidentRepository(db, zap.NewNop())
	db.Close()

	if _, err := repo.GetIncidents(context.Background(), 10); err == nil {
		t.Fatal("expected error from closed database")
	}
	if _, err := repo.GetSentimentStats(context.Background()); err == nil {
		t.Fatal("expected error from closed database")
	}
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	if _, err := NewDB("oracle", "dsn", zap.NewNop()); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
