package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStateRepository implements StateRepository using SQLite.
// Thread-safe with WAL mode for high-concurrency reads.
type SQLiteStateRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStateRepository creates a new SQLite state repository.
// dbPath is the path to the SQLite database file (e.g., "./data/cuepack.db")
func NewSQLiteStateRepository(dbPath string) (*SQLiteStateRepository, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports one writer; every mutation rewrites whole
	// documents, so a single connection is all we need.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteStateRepository] Initialized with database: %s", dbPath)
	return &SQLiteStateRepository{db: db}, nil
}

func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS cuepack_state (
		doc_key TEXT PRIMARY KEY,
		doc_json TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := db.Exec(query)
	return err
}

// Save stores or replaces the document under key.
func (r *SQLiteStateRepository) Save(ctx context.Context, key string, doc []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO cuepack_state (doc_key, doc_json, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(doc_key) DO UPDATE SET
			doc_json = excluded.doc_json,
			updated_at = datetime('now')`

	_, err := r.db.ExecContext(ctx, query, key, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", key, err)
	}
	return nil
}

// Load retrieves the document under key.
func (r *SQLiteStateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

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
func (r *SQLiteStateRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

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

	var pageCount, pageSize int64
	r.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	r.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
	stats["db_size_bytes"] = pageCount * pageSize

	return stats, nil
}

// Close closes the database connection.
func (r *SQLiteStateRepository) Close() error {
	return r.db.Close()
}

var _ StateRepository = (*SQLiteStateRepository)(nil)
