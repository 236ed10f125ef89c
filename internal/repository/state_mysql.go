package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// MySQLStateRepository implements StateRepository using MySQL, for
// deployments that already run one. The caller owns the *sql.DB.
type MySQLStateRepository struct {
	db *sql.DB
}

// NewMySQLStateRepository creates a new MySQL state repository and ensures
// the backing table exists.
func NewMySQLStateRepository(db *sql.DB) (*MySQLStateRepository, error) {
	query := `
	CREATE TABLE IF NOT EXISTS cuepack_state (
		doc_key VARCHAR(64) PRIMARY KEY,
		doc_json LONGTEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &MySQLStateRepository{db: db}, nil
}

// Save stores or replaces the document under key.
func (r *MySQLStateRepository) Save(ctx context.Context, key string, doc []byte) error {
	query := `
		INSERT INTO cuepack_state (doc_key, doc_json, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE
			doc_json = VALUES(doc_json),
			updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, key, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", key, err)
	}
	return nil
}

// Load retrieves the document under key.
func (r *MySQLStateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var docJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT doc_json FROM cuepack_state WHERE doc_key = ?`, key).Scan(&docJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load document %q: %w", key, err)
	}
	return []byte(docJSON), nil
}

// Stats returns statistics about the state database.
func (r *MySQLStateRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cuepack_state").Scan(&count); err != nil {
		return nil, err
	}
	stats["documents"] = count

	var lastSave sql.NullTime
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM cuepack_state").Scan(&lastSave); err == nil && lastSave.Valid {
		stats["last_save"] = lastSave.Time
	}

	return stats, nil
}

// Close closes the database connection.
func (r *MySQLStateRepository) Close() error {
	return r.db.Close()
}

var _ StateRepository = (*MySQLStateRepository)(nil)
