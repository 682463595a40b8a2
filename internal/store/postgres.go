package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Postgres stores snapshots as JSONB rows.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and applies migrations.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if err := migratePostgres(ctx, dsn); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	slog.Info("snapshot store connected", "driver", DriverPostgres)
	return &Postgres{pool: pool}, nil
}

func migratePostgres(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()
	return migrate(ctx, sqlDB, goose.DialectPostgres, "postgres")
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) BeginRun(ctx context.Context, run Run) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO replay_runs (id, started_at, source) VALUES ($1, $2, $3)`,
		run.ID.String(), run.StartedAt, run.Source,
	)
	if err != nil {
		return fmt.Errorf("creating run %s: %w", run.ID, err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, rec Record) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO snapshots (run_id, account, taken_at, body) VALUES ($1, $2, $3, $4)`,
		rec.RunID.String(), rec.Account, rec.TakenAt, []byte(rec.Body),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot of %q: %w", rec.Account, err)
	}
	return nil
}

func (p *Postgres) Latest(ctx context.Context, account string) (*Record, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT run_id::text, account, taken_at, body::text
		 FROM snapshots WHERE account = $1
		 ORDER BY taken_at DESC, id DESC LIMIT 1`, account,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot of %q: %w", account, err)
	}
	return &rec, nil
}

func (p *Postgres) History(ctx context.Context, account string, limit int) ([]Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT run_id::text, account, taken_at, body::text
		 FROM snapshots WHERE account = $1
		 ORDER BY taken_at DESC, id DESC LIMIT $2`, account, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history of %q: %w", account, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning history of %q: %w", account, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// scanner is the Scan method shared by pgx.Row, pgx.Rows and *sql.Row(s).
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec   Record
		runID string
		body  string
	)
	if err := row.Scan(&runID, &rec.Account, &rec.TakenAt, &body); err != nil {
		return Record{}, err
	}
	id, err := uuid.Parse(runID)
	if err != nil {
		return Record{}, fmt.Errorf("parsing run id %q: %w", runID, err)
	}
	rec.RunID = id
	rec.TakenAt = rec.TakenAt.UTC()
	rec.Body = []byte(body)
	return rec, nil
}
