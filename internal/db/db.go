// Package db provides PostgreSQL storage for extraction results.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-profiler/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by DeleteResult when no owned row matches
var ErrNotFound = errors.New("extraction result not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the extraction_results table when missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SaveResult stores a result for a user and returns its new ID
func (db *DB) SaveResult(ctx context.Context, userID uuid.UUID, sourceName string, result types.ParsingResult) (uuid.UUID, error) {
	content, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO extraction_results (id, user_id, source_name, confidence, result)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, userID, sourceName, result.Confidence, content,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save result: %w", err)
	}
	return id, nil
}

// GetResult retrieves a result owned by userID. Returns nil, nil when no
// such row exists.
func (db *DB) GetResult(ctx context.Context, id, userID uuid.UUID) (*StoredResult, error) {
	var stored StoredResult
	var content []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, source_name, result, created_at
		 FROM extraction_results WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&stored.ID, &stored.UserID, &stored.SourceName, &content, &stored.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	if err := json.Unmarshal(content, &stored.Result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result %s: %w", id, err)
	}
	return &stored, nil
}

// ListResults returns the user's most recent results, newest first
func (db *DB) ListResults(ctx context.Context, userID uuid.UUID, limit int) ([]ResultSummary, error) {
	limit = clampLimit(limit)

	rows, err := db.pool.Query(ctx,
		`SELECT id, source_name, confidence, created_at
		 FROM extraction_results WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	summaries := []ResultSummary{}
	for rows.Next() {
		var s ResultSummary
		if err := rows.Scan(&s.ID, &s.SourceName, &s.Confidence, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return summaries, nil
}

// DeleteResult removes a result owned by userID
func (db *DB) DeleteResult(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM extraction_results WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
