package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLite stores snapshots in a single local database file. Timestamps are
// unix nanoseconds.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite %s: %w", path, err)
	}
	if err := migrate(ctx, db, goose.DialectSQLite3, "sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	// Single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	slog.Info("snapshot store opened", "driver", DriverSQLite, "path", path)
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO replay_runs (id, started_at, source) VALUES (?, ?, ?)`,
		run.ID.String(), run.StartedAt.UnixNano(), run.Source,
	)
	if err != nil {
		return fmt.Errorf("creating run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLite) Save(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (run_id, account, taken_at, body) VALUES (?, ?, ?, ?)`,
		rec.RunID.String(), rec.Account, rec.TakenAt.UnixNano(), string(rec.Body),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot of %q: %w", rec.Account, err)
	}
	return nil
}

func (s *SQLite) Latest(ctx context.Context, account string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, account, taken_at, body
		 FROM snapshots WHERE account = ?
		 ORDER BY taken_at DESC, id DESC LIMIT 1`, account,
	)
	rec, err := scanSQLiteRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot of %q: %w", account, err)
	}
	return &rec, nil
}

func (s *SQLite) History(ctx context.Context, account string, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, account, taken_at, body
		 FROM snapshots WHERE account = ?
		 ORDER BY taken_at DESC, id DESC LIMIT ?`, account, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history of %q: %w", account, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning history of %q: %w", account, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanSQLiteRecord(row scanner) (Record, error) {
	var (
		rec     Record
		runID   string
		takenAt int64
		body    string
	)
	if err := row.Scan(&runID, &rec.Account, &takenAt, &body); err != nil {
		return Record{}, err
	}
	id, err := uuid.Parse(runID)
	if err != nil {
		return Record{}, fmt.Errorf("parsing run id %q: %w", runID, err)
	}
	rec.RunID = id
	rec.TakenAt = time.Unix(0, takenAt).UTC()
	rec.Body = []byte(body)
	return rec, nil
}
