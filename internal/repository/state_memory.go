package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStateRepository implements StateRepository in memory. Used for
// tests and for running the server without a database.
type MemoryStateRepository struct {
	mu       sync.RWMutex
	docs     map[string][]byte
	lastSave time.Time
}

// NewMemoryStateRepository creates an empty in-memory state repository.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{docs: make(map[string][]byte)}
}

// Save stores or replaces the document under key.
func (r *MemoryStateRepository) Save(ctx context.Context, key string, doc []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]byte, len(doc))
	copy(stored, doc)
	r.docs[key] = stored
	r.lastSave = time.Now()
	return nil
}

// Load retrieves the document under key.
func (r *MemoryStateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

// Stats returns statistics about the stored documents.
func (r *MemoryStateRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := map[string]interface{}{
		"documents": int64(len(r.docs)),
	}
	if !r.lastSave.IsZero() {
		stats["last_save"] = r.lastSave
	}
	return stats, nil
}

// Close is a no-op for the in-memory repository.
func (r *MemoryStateRepository) Close() error {
	return nil
}

var _ StateRepository = (*MemoryStateRepository)(nil)
