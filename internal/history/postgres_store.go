package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"intervalTimerService/internal/clock"
)

const dbTimeout = time.Second * 3

// ErrDuplicateRecord is returned when a record id is stored twice
var ErrDuplicateRecord = errors.New("history record already exists")

const createTableSQL = `
CREATE TABLE IF NOT EXISTS interval_history (
	id              UUID PRIMARY KEY,
	kind            TEXT        NOT NULL,
	skipped         BOOLEAN     NOT NULL,
	ended_at        TIMESTAMPTZ NOT NULL,
	intervals_total INTEGER     NOT NULL,
	intervals_set   INTEGER     NOT NULL
)`

// PostgresStore keeps interval history in Postgres
type PostgresStore struct {
	DB *sql.DB
}

// OpenPostgres connects through the lib/pq driver and creates the table if needed
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store := &PostgresStore{DB: db}
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the history table
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create interval_history: %w", err)
	}
	return nil
}

// Close closes the database
func (p *PostgresStore) Close() error {
	return p.DB.Close()
}

// Insert stores a record
func (p *PostgresStore) Insert(ctx context.Context, r Record) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := p.DB.ExecContext(ctx,
		`INSERT INTO interval_history (id, kind, skipped, ended_at, intervals_total, intervals_set)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID.String(), string(r.Kind), r.Skipped, r.EndedAt, r.FocusIntervals.Total, r.FocusIntervals.Set)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first
func (p *PostgresStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := p.DB.QueryContext(ctx,
		`SELECT id, kind, skipped, ended_at, intervals_total, intervals_set
		 FROM interval_history ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var (
			id   string
			kind string
			r    Record
		)
		if err := rows.Scan(&id, &kind, &r.Skipped, &r.EndedAt, &r.FocusIntervals.Total, &r.FocusIntervals.Set); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if r.Kind, err = clock.ParseIntervalKind(kind); err != nil {
			log.Printf("⚠️ Skipping history record %s: %v", id, err)
			continue
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
