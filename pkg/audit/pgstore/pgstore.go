// Package pgstore persists sanitization audit events in PostgreSQL.
package pgstore

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/inputguard/pkg/audit"
)

// Migrations holds the goose migrations for the events table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations passed to pg.Migrate.
const MigrationsDir = "migrations"

const insertEvent = `INSERT INTO sanitization_events
	(id, request_id, ip, user_agent, method, path, source, field, original, cleaned, families, attack, fallback, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO NOTHING`

const selectRecent = `SELECT id::text, request_id, ip, user_agent, method, path, source, field, original, cleaned, families, attack, fallback, created_at
FROM sanitization_events
ORDER BY created_at DESC
LIMIT $1`

// DB is the subset of *pgxpool.Pool used by Storage.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Storage implements audit.Storage and audit.Reader.
type Storage struct {
	db DB
}

var (
	_ audit.Storage = (*Storage)(nil)
	_ audit.Reader  = (*Storage)(nil)
)

// New creates a storage on db, typically a *pgxpool.Pool.
func New(db DB) *Storage {
	if db == nil {
		panic("pgstore: db cannot be nil")
	}
	return &Storage{db: db}
}

// StoreBatch inserts events in a single round trip. Events already stored
// are skipped.
func (s *Storage) StoreBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range events {
		e := &events[i]
		if err := e.Validate(); err != nil {
			return err
		}
		families := e.Families
		if families == nil {
			families = []string{}
		}
		batch.Queue(insertEvent,
			e.ID, e.RequestID, e.IP, e.UserAgent, e.Method, e.Path,
			e.Source, e.Field, e.Original, e.Cleaned, families,
			e.Attack, e.Fallback, e.CreatedAt,
		)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Storage) Recent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(ctx, selectRecent, limit)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (audit.Event, error) {
		var e audit.Event
		err := row.Scan(&e.ID, &e.RequestID, &e.IP, &e.UserAgent, &e.Method, &e.Path,
			&e.Source, &e.Field, &e.Original, &e.Cleaned, &e.Families,
			&e.Attack, &e.Fallback, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return events, nil
}
