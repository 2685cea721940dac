package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockCurator/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			symbol             TEXT NOT NULL,
			raw_rows           INTEGER,
			curated_rows       INTEGER,
			clean_rows         INTEGER,
			duplicates_removed INTEGER,
			cells_filled       INTEGER,
			rows_dropped       INTEGER,
			duration_ms        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS anomalies (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         INTEGER NOT NULL,
			field          TEXT NOT NULL,
			negative_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_anomalies_run ON anomalies(run_id)`,

		`CREATE TABLE IF NOT EXISTS outlier_days (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       INTEGER NOT NULL,
			date         TEXT NOT NULL,
			close        REAL,
			daily_return REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outliers_run ON outlier_days(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot, report *model.CleanReport, outliers []model.PricePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(timestamp, symbol, raw_rows, curated_rows, clean_rows,
		 duplicates_removed, cells_filled, rows_dropped, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Symbol, snap.RawRows, snap.CuratedRows, snap.CleanRows,
		snap.DuplicatesRemoved, snap.CellsFilled, snap.RowsDropped,
		snap.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	if report != nil {
		for field, count := range report.NegativeCounts {
			if _, err := tx.Exec(`INSERT INTO anomalies (run_id, field, negative_count) VALUES (?,?,?)`,
				runID, field, count); err != nil {
				return fmt.Errorf("insert anomaly: %w", err)
			}
		}
	}

	for _, p := range outliers {
		if _, err := tx.Exec(`INSERT INTO outlier_days (run_id, date, close, daily_return) VALUES (?,?,?,?)`,
			runID, p.Date.Format("2006-01-02"), p.Close, p.DailyReturn); err != nil {
			return fmt.Errorf("insert outlier: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
