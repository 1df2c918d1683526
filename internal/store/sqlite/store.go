package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/msomdec/user-directory/internal/domain"
)

// Store implements domain.Store on a SQLite entities table. Fields are
// serialized as a JSON text column so the table stays schema-free per kind.
type Store struct {
	db *sql.DB
}

func (s *Store) Get(ctx context.Context, kind, key string) (domain.Entity, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM entities WHERE kind = ? AND key = ?`, kind, key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entity{}, domain.ErrNotFound
		}
		return domain.Entity{}, fmt.Errorf("%w: query entity: %v", domain.ErrUnavailable, err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("decode entity %q: %w", key, err)
	}
	return domain.Entity{Key: key, Fields: fields}, nil
}

func (s *Store) Put(ctx context.Context, kind, key string, fields map[string]string) error {
	raw, err := encodeFields(fields)
	if err != nil {
		return fmt.Errorf("encode entity %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entities (kind, key, fields) VALUES (?, ?, ?)
		 ON CONFLICT (kind, key) DO UPDATE SET fields = excluded.fields`,
		kind, key, raw,
	)
	if err != nil {
		return fmt.Errorf("%w: insert entity: %v", domain.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, kind, key string, fields map[string]string) error {
	raw, err := encodeFields(fields)
	if err != nil {
		return fmt.Errorf("encode entity %q: %w", key, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE entities SET fields = ? WHERE kind = ? AND key = ?`,
		raw, kind, key,
	)
	if err != nil {
		return fmt.Errorf("%w: update entity: %v", domain.ErrUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", domain.ErrUnavailable, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind, key string) error {
	// Deleting an absent key is a no-op, not an error.
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM entities WHERE kind = ? AND key = ?`, kind, key,
	)
	if err != nil {
		return fmt.Errorf("%w: delete entity: %v", domain.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) ScanAll(ctx context.Context, kind string) (domain.Cursor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, fields FROM entities WHERE kind = ?`, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: scan entities: %v", domain.ErrUnavailable, err)
	}
	return &cursor{rows: rows}, nil
}

// cursor adapts sql.Rows to domain.Cursor, decoding one entity per step.
type cursor struct {
	rows *sql.Rows
	cur  domain.Entity
	err  error
}

func (c *cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}

	var key, raw string
	if err := c.rows.Scan(&key, &raw); err != nil {
		c.err = fmt.Errorf("%w: scan row: %v", domain.ErrUnavailable, err)
		return false
	}
	fields, err := decodeFields(raw)
	if err != nil {
		c.err = fmt.Errorf("decode entity %q: %w", key, err)
		return false
	}
	c.cur = domain.Entity{Key: key, Fields: fields}
	return true
}

func (c *cursor) Entity() domain.Entity { return c.cur }

func (c *cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	if err := c.rows.Err(); err != nil {
		return fmt.Errorf("%w: scan entities: %v", domain.ErrUnavailable, err)
	}
	return nil
}

func (c *cursor) Close() error { return c.rows.Close() }

func encodeFields(fields map[string]string) (string, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeFields(raw string) (map[string]string, error) {
	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
