package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/atelier-shop/assistant-bot/internal/domain"
)

// PostgresStore persists order records in a PostgreSQL table. Unlike the file
// backend, appends are plain inserts and need no process-level lock.
type PostgresStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresStore creates a SQL-backed order store.
func NewPostgresStore(db *sql.DB, log *slog.Logger) *PostgresStore {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresStore{
		db:  db,
		log: log,
	}
}

// Append inserts the record into the orders table.
func (s *PostgresStore) Append(ctx context.Context, record domain.Record) error {
	const query = `
		INSERT INTO orders (product, name, phone, email)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := s.db.ExecContext(
		ctx,
		query,
		record.Product,
		record.Name,
		record.Phone,
		record.Email,
	); err != nil {
		s.log.Error("failed to insert order", slog.String("product", record.Product), slog.Any("error", err))
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// HealthCheck pings the database.
func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	if s == nil || s.db == nil {
		return sql.ErrConnDone
	}
	return s.db.PingContext(ctx)
}
