// Package store persists decoded snapshots.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/sfstate/internal/gamestate"
	"github.com/udisondev/sfstate/internal/store/migrations"
)

// Driver names accepted by Open.
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown store driver")
	// ErrNoAccount is returned for a snapshot without a character name.
	ErrNoAccount = errors.New("snapshot has no account name")
)

// Run is one replay invocation. Every snapshot belongs to a run.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	Source    string
}

// NewRun starts a run with a fresh random id.
func NewRun(source string, now time.Time) Run {
	return Run{ID: uuid.New(), StartedAt: now.UTC(), Source: source}
}

// Record is a stored snapshot.
type Record struct {
	RunID   uuid.UUID
	Account string
	TakenAt time.Time
	Body    json.RawMessage
}

// NewRecord serializes a snapshot for storage. The account key is the
// character name.
func NewRecord(run Run, snap *gamestate.Snapshot, takenAt time.Time) (Record, error) {
	if snap.Character.Name == "" {
		return Record{}, fmt.Errorf("new record: %w", ErrNoAccount)
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return Record{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	return Record{RunID: run.ID, Account: snap.Character.Name, TakenAt: takenAt.UTC(), Body: body}, nil
}

// Snapshot decodes the stored body.
func (r Record) Snapshot() (*gamestate.Snapshot, error) {
	var s gamestate.Snapshot
	if err := json.Unmarshal(r.Body, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot of %q: %w", r.Account, err)
	}
	return &s, nil
}

// Store persists runs and snapshots.
type Store interface {
	// BeginRun registers a run. It must be called before saving its records.
	BeginRun(ctx context.Context, run Run) error
	// Save stores one snapshot.
	Save(ctx context.Context, rec Record) error
	// Latest returns the newest snapshot of account, or nil, nil if none.
	Latest(ctx context.Context, account string) (*Record, error)
	// History returns up to limit snapshots of account, newest first.
	History(ctx context.Context, account string, limit int) ([]Record, error)
	Close() error
}

// Open connects to the backend named by driver and applies migrations.
// DriverNone returns a nil Store.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverNone, "":
		return nil, nil
	case DriverPostgres:
		pg, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case DriverSQLite:
		lite, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return lite, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// migrate applies the embedded migrations of one dialect directory.
func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("opening %s migrations: %w", dir, err)
	}
	p, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
