package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
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

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exposure_runs (
			run_id           TEXT PRIMARY KEY,
			timestamp        INTEGER NOT NULL,
			run_trigger      TEXT,
			source           TEXT,
			include_deposit  INTEGER NOT NULL,
			ltv_cap          REAL,
			loan_count       INTEGER,
			comparison_count INTEGER,
			dropped          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON exposure_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS exposure_points (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES exposure_runs(run_id),
			decline    REAL NOT NULL,
			series     TEXT NOT NULL,
			loss_ratio REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_run ON exposure_points(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run and its curve in one transaction.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var ltvCap sql.NullFloat64
	if snap.LTVCap != nil {
		ltvCap = sql.NullFloat64{Float64: *snap.LTVCap, Valid: true}
	}
	_, err = tx.Exec(`INSERT INTO exposure_runs
		(run_id, timestamp, run_trigger, source, include_deposit, ltv_cap, loan_count, comparison_count, dropped)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		snap.RunID, r.now().Unix(), snap.Trigger, snap.Source, snap.IncludeSecurityDeposit,
		ltvCap, snap.LoanCount, snap.ComparisonCount, snap.Dropped,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO exposure_points (run_id, decline, series, loss_ratio) VALUES (?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare points: %w", err)
	}
	defer stmt.Close()
	for _, row := range snap.Rows {
		if _, err := stmt.Exec(snap.RunID, row.Decline, row.Series, row.LossRatio); err != nil {
			return fmt.Errorf("insert point: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns the latest runs, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, timestamp, run_trigger, source, include_deposit, ltv_cap,
		loan_count, comparison_count, dropped
		FROM exposure_runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s      RunSummary
			ts     int64
			ltvCap sql.NullFloat64
		)
		if err := rows.Scan(&s.RunID, &ts, &s.Trigger, &s.Source, &s.IncludeSecurityDeposit, &ltvCap,
			&s.LoanCount, &s.ComparisonCount, &s.Dropped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Timestamp = time.Unix(ts, 0)
		if ltvCap.Valid {
			v := ltvCap.Float64
			s.LTVCap = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
