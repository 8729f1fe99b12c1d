package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"phototag/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStatementLabel verifies statements group by verb and table.
func TestStatementLabel(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT tag FROM image_tag WHERE image_id = ?", "SELECT image_tag"},
		{"  insert into known_tag (name) values (?)", "INSERT known_tag"},
		{"DELETE FROM image_tag", "DELETE image_tag"},
		{"UPDATE known_tag SET name = ?", "UPDATE known_tag"},
		{"PRAGMA journal_mode=WAL", "PRAGMA"},
		{"SELECT 1", "SELECT"},
		{"", "EMPTY"},
	}
	for _, tt := range tests {
		if got := statementLabel(tt.query); got != tt.want {
			t.Errorf("statementLabel(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

// TestTimedDB_RecordsEachCall verifies every wrapped call records one entry.
func TestTimedDB_RecordsEachCall(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO image_tag (image_id, tag) VALUES (?, ?)", "a.jpg", "Cat"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT tag FROM image_tag WHERE image_id = ?", "a.jpg")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	rows.Close()
	var n int
	if err := tdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM image_tag").Scan(&n); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestQueries) != 2 {
		t.Errorf("expected INSERT and SELECT labels, got %+v", snap.SlowestQueries)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors are returned and still timed.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO nonexistent_table VALUES (?)", 1); err == nil {
		t.Fatal("expected error from invalid SQL")
	}
	var v string
	err := tdb.QueryRowContext(context.Background(), "SELECT tag FROM image_tag WHERE image_id = ?", "missing").Scan(&v)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	if collector.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2", collector.TotalRecorded())
	}
}

// TestTimedDB_CancelledContext verifies a cancelled context errors and is timed.
func TestTimedDB_CancelledContext(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tdb.ExecContext(ctx, "DELETE FROM image_tag"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector verifies TimedDB works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)
	tx, err := tdb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	tx.Rollback()
	if tdb.RawDB() != db {
		t.Error("RawDB should return the wrapped *sql.DB")
	}
}

// TestSlowQueryThresholdFromEnv verifies env override and fallback.
func TestSlowQueryThresholdFromEnv(t *testing.T) {
	t.Setenv("PHOTOTAG_SLOW_QUERY_MS", "")
	if got := SlowQueryThresholdFromEnv(); got != DefaultSlowQueryMs*time.Millisecond {
		t.Errorf("default = %v", got)
	}
	t.Setenv("PHOTOTAG_SLOW_QUERY_MS", "7")
	if got := SlowQueryThresholdFromEnv(); got != 7*time.Millisecond {
		t.Errorf("override = %v, want 7ms", got)
	}
	t.Setenv("PHOTOTAG_SLOW_QUERY_MS", "nope")
	if got := SlowQueryThresholdFromEnv(); got != DefaultSlowQueryMs*time.Millisecond {
		t.Errorf("invalid value should fall back, got %v", got)
	}
}

// TestInitDB_Idempotent verifies the schema can be applied twice.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTimedTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('known_tag','image_tag')").Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if n != 2 {
		t.Errorf("tables = %d, want 2", n)
	}
}
