package repository

import "context"

// StateRepository persists the application document graph: one serialized
// JSON document per logical key, rewritten in full on every save.
type StateRepository interface {
	// Save stores or replaces the document under key.
	Save(ctx context.Context, key string, doc []byte) error

	// Load retrieves the document under key. Returns (nil, nil) when the
	// key has never been written.
	Load(ctx context.Context, key string) ([]byte, error)

	// Stats returns statistics about the state database.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}
