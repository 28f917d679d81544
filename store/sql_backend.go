package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Dialect selects the SQL flavour used by SQLBackend.
type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// DefaultSQLTimeout bounds each statement when no timeout is given.
const DefaultSQLTimeout = 5 * time.Second

type dialectQueries struct {
	schema string
	get    string
	upsert string
	remove string
}

var queries = map[Dialect]dialectQueries{
	DialectSQLite: {
		schema: `CREATE TABLE IF NOT EXISTS kv_items (
	item_key   TEXT PRIMARY KEY,
	item_value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
)`,
		get: `SELECT item_value FROM kv_items WHERE item_key = ?`,
		upsert: `INSERT INTO kv_items (item_key, item_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`,
		remove: `DELETE FROM kv_items WHERE item_key = ?`,
	},
	DialectMySQL: {
		schema: `CREATE TABLE IF NOT EXISTS kv_items (
	item_key   VARCHAR(191) PRIMARY KEY,
	item_value LONGTEXT NOT NULL,
	updated_at DATETIME NOT NULL
)`,
		get: `SELECT item_value FROM kv_items WHERE item_key = ?`,
		upsert: `INSERT INTO kv_items (item_key, item_value, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE item_value = VALUES(item_value), updated_at = VALUES(updated_at)`,
		remove: `DELETE FROM kv_items WHERE item_key = ?`,
	},
}

// SQLBackend keeps values in a single kv_items table.
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
	q       dialectQueries
	timeout time.Duration
}

// OpenSQLite opens (or creates) a SQLite database at path. ":memory:" is accepted.
func OpenSQLite(path string, timeout time.Duration) (*SQLBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY, and keeps ":memory:" on one connection
	b, err := NewSQLBackend(db, DialectSQLite, timeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// OpenMySQL connects to the MySQL server in dsn and ensures the table exists.
func OpenMySQL(dsn string, timeout time.Duration) (*SQLBackend, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	b, err := NewSQLBackend(db, DialectMySQL, timeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// NewSQLBackend wraps an open database and runs the migration.
// The backend takes ownership of db.
func NewSQLBackend(db *sql.DB, dialect Dialect, timeout time.Duration) (*SQLBackend, error) {
	q, ok := queries[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	if timeout <= 0 {
		timeout = DefaultSQLTimeout
	}
	b := &SQLBackend{db: db, dialect: dialect, q: q, timeout: timeout}

	ctx, cancel := b.context()
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect %s: %w", dialect, err)
	}
	if _, err := db.ExecContext(ctx, q.schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return b, nil
}

// Dialect returns the SQL flavour in use.
func (b *SQLBackend) Dialect() Dialect {
	return b.dialect
}

func (b *SQLBackend) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

func (b *SQLBackend) GetItem(key string) (string, bool, error) {
	ctx, cancel := b.context()
	defer cancel()

	var value string
	err := b.db.QueryRowContext(ctx, b.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, b.wrap("get", err)
	}
	return value, true, nil
}

func (b *SQLBackend) SetItem(key, value string) error {
	ctx, cancel := b.context()
	defer cancel()

	if _, err := b.db.ExecContext(ctx, b.q.upsert, key, value, time.Now().UTC()); err != nil {
		return b.wrap("set", err)
	}
	return nil
}

func (b *SQLBackend) RemoveItem(key string) error {
	ctx, cancel := b.context()
	defer cancel()

	if _, err := b.db.ExecContext(ctx, b.q.remove, key); err != nil {
		return b.wrap("remove", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (b *SQLBackend) Close() error {
	return b.db.Close()
}

func (b *SQLBackend) wrap(op string, err error) error {
	if errors.Is(err, sql.ErrConnDone) || err.Error() == "sql: database is closed" {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return fmt.Errorf("%s %s item: %w", b.dialect, op, err)
}

var _ Backend = (*SQLBackend)(nil)
