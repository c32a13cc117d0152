package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"EcoUrban/internal/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists forecast history to a SQLite database.
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

	// WAL lets dashboards read history while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("component", "recorder").Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_history (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			request_id     TEXT,
			generation     INTEGER,
			state          TEXT NOT NULL,
			forecast       REAL,
			average        REAL,
			current        REAL,
			saving_percent REAL,
			is_anomaly     INTEGER NOT NULL DEFAULT 0,
			error          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecast_ts ON forecast_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordForecast(evt *ForecastEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO forecast_history
		(timestamp, request_id, generation, state, forecast, average, current, saving_percent, is_anomaly, error)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), evt.RequestID, int64(evt.Generation), string(evt.State),
		nullFloat(evt.Forecast), nullFloat(evt.Average), nullFloat(evt.Current), nullFloat(evt.SavingPercent),
		evt.IsAnomaly, evt.Error,
	)
	return err
}

// Recent returns up to limit events, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]ForecastEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, request_id, generation, state, forecast, average, current,
		saving_percent, is_anomaly, error
		FROM forecast_history ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []ForecastEvent
	for rows.Next() {
		var (
			evt                                 ForecastEvent
			ts, gen                             int64
			state                               string
			reqID, errMsg                       sql.NullString
			forecast, average, current, savings sql.NullFloat64
		)
		if err := rows.Scan(&ts, &reqID, &gen, &state, &forecast, &average, &current,
			&savings, &evt.IsAnomaly, &errMsg); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		evt.Timestamp = time.UnixMilli(ts)
		evt.RequestID = reqID.String
		evt.Generation = uint64(gen)
		evt.State = model.RequestPhase(state)
		evt.Forecast = floatPtr(forecast)
		evt.Average = floatPtr(average)
		evt.Current = floatPtr(current)
		evt.SavingPercent = floatPtr(savings)
		evt.Error = errMsg.String
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Str("component", "recorder").Msg("closing sqlite recorder")
	return r.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
