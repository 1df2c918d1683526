package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/msomdec/user-directory/internal/domain"
	"github.com/msomdec/user-directory/internal/store/postgres/migrations"
)

// DB is the PostgreSQL-backed store backend, driven through pgx's
// database/sql adapter.
type DB struct {
	SqlDB *sql.DB
}

// New opens a PostgreSQL connection pool for the given DSN.
func New(dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Entities returns the key-value store gateway backed by this database.
func (db *DB) Entities() domain.Store {
	return &Store{db: db.SqlDB}
}
