package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// PostgresArchive keeps a history of rendered digests in PostgreSQL.
// The archive is optional: runs work the same without a DATABASE_URL,
// and archive failures never affect delivery or the file artifact.
type PostgresArchive struct {
	db *sql.DB
}

// NewPostgresArchive connects and ensures the schema exists.
func NewPostgresArchive(connectionString string) (*PostgresArchive, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	archive := &PostgresArchive{db: db}
	if err := archive.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("postgres digest archive connected")
	return archive, nil
}

func (a *PostgresArchive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS digests (
		id SERIAL PRIMARY KEY,
		body TEXT NOT NULL,
		delivered BOOLEAN NOT NULL,
		items_collected INTEGER NOT NULL,
		corporate_items INTEGER NOT NULL DEFAULT 0,
		chunks_delivered INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_digests_created_at ON digests(created_at);
	`

	if _, err := a.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveDigest archives one rendered digest with its run status.
func (a *PostgresArchive) SaveDigest(ctx context.Context, body string, status RunStatus, createdAt time.Time) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO digests (body, delivered, items_collected, corporate_items, chunks_delivered, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		body, status.Delivered, status.ItemsCollected, status.CorporateItems, status.ChunksDelivered, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert digest: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (a *PostgresArchive) Close() error {
	return a.db.Close()
}
