package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"StrategySentinel/internal/model"
)

// SQLiteRecorder persists analysis runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	// WAL mode for concurrent reads while the daemon writes.
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp             INTEGER NOT NULL,
			symbol                TEXT NOT NULL,
			trigger_type          TEXT,
			start_date            TEXT,
			end_date              TEXT,
			sample_count          INTEGER,
			total_return          REAL,
			annualized_drift      REAL,
			annualized_volatility REAL,
			current_price         REAL,
			rsi14                 REAL,
			ema20                 REAL,
			sma50                 REAL,
			position_52w          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON analysis_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_metrics (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    INTEGER NOT NULL REFERENCES analysis_runs(id),
			strategy  TEXT NOT NULL,
			metric_id TEXT NOT NULL,
			label     TEXT,
			value     REAL,
			unit      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_run ON analysis_metrics(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run and its metrics in one transaction and returns the run id.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := run.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	st, ind := run.Stats, run.Indicators
	res, err := tx.Exec(`INSERT INTO analysis_runs
		(timestamp, symbol, trigger_type, start_date, end_date, sample_count,
		 total_return, annualized_drift, annualized_volatility,
		 current_price, rsi14, ema20, sma50, position_52w)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), run.Symbol, string(run.Trigger), st.StartDate, st.EndDate, st.SampleCount,
		st.TotalReturn, st.AnnualizedDrift, st.AnnualizedVolatility,
		ind.CurrentPrice, ind.RSI14, ind.EMA20, ind.SMA50, ind.Position52w,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO analysis_metrics
		(run_id, strategy, metric_id, label, value, unit) VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare metric insert: %w", err)
	}
	defer stmt.Close()
	for _, m := range run.Metrics {
		if _, err := stmt.Exec(runID, string(m.Strategy), m.Metric.ID, m.Metric.Label, m.Metric.Value, m.Metric.Unit); err != nil {
			return 0, fmt.Errorf("insert metric %s: %w", m.Metric.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// RecentRuns returns the latest runs for symbol, newest first.
func (r *SQLiteRecorder) RecentRuns(symbol string, limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, symbol, trigger_type, timestamp, end_date, current_price, total_return
		FROM analysis_runs WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var runs []RunSummary
	for rows.Next() {
		var s RunSummary
		var trigger string
		var ts int64
		if err := rows.Scan(&s.ID, &s.Symbol, &trigger, &ts, &s.EndDate, &s.CurrentPrice, &s.TotalReturn); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Trigger = model.TriggerType(trigger)
		s.RecordedAt = time.UnixMilli(ts).UTC()
		s.Metrics = map[string]float64{}
		runs = append(runs, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if err := r.loadMetrics(&runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (r *SQLiteRecorder) loadMetrics(run *RunSummary) error {
	rows, err := r.db.Query(`SELECT strategy, metric_id, value FROM analysis_metrics WHERE run_id = ?`, run.ID)
	if err != nil {
		return fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var strategy, id string
		var value float64
		if err := rows.Scan(&strategy, &id, &value); err != nil {
			return fmt.Errorf("scan metric: %w", err)
		}
		run.Metrics[MetricKey(model.StrategyKind(strategy), id)] = value
	}
	return rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
