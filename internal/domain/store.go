package domain

import "context"

// Entity is a stored record within a kind: a string key plus a mapping of
// field names to values.
type Entity struct {
	Key    string
	Fields map[string]string
}

// Cursor is a forward-only, single-pass iterator over scan results, in the
// shape of sql.Rows. Callers must Close it and check Err after iteration.
type Cursor interface {
	Next() bool
	Entity() Entity
	Err() error
	Close() error
}

// Store is the persistence gateway: key-value primitives scoped to a kind
// namespace. Implementations must be safe for concurrent use.
//
// Connectivity and remote-store failures are reported wrapped in
// ErrUnavailable, distinct from the ErrNotFound domain condition.
type Store interface {
	// Get performs a point lookup. Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, kind, key string) (Entity, error)

	// Put writes the entity unconditionally; writing an existing key is
	// store-defined (both SQL backends overwrite).
	Put(ctx context.Context, kind, key string, fields map[string]string) error

	// Update overwrites all fields of an existing entity. Returns
	// ErrNotFound if the key is absent.
	Update(ctx context.Context, kind, key string, fields map[string]string) error

	// Delete removes the entity. Deleting an absent key is not an error.
	Delete(ctx context.Context, kind, key string) error

	// ScanAll returns every entity under the kind in unspecified order.
	ScanAll(ctx context.Context, kind string) (Cursor, error)
}
