// Package sqlite is the default lodcache.TripleStoreConnection, backed by
// the pure-Go glebarez/go-sqlite driver (grounded on the teacher's
// core.SQLiteCache in always-cache).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/fortytwonet/lodcache"
)

// Connection is a single shared *sql.DB plus the mutex that serializes
// write access (§5: "a single shared connection... the only serialization
// point is the metadata index's lock", extended here to cover statement
// writes since SQLite itself only allows one writer).
type Connection struct {
	db *sql.DB
	mu sync.Mutex
	tx *sql.Tx
}

// Open creates or attaches to the statements table at path. An empty path
// selects "lodcache.db"; ":memory:" opens an in-memory database.
func Open(path string) (*Connection, error) {
	if path == "" {
		path = "lodcache.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("lodcache/sqlite: open: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS statements (
		subject TEXT NOT NULL,
		predicate TEXT NOT NULL,
		object TEXT NOT NULL,
		object_is_literal INTEGER NOT NULL DEFAULT 0,
		context TEXT NOT NULL DEFAULT ''
	)`); err != nil {
		return nil, fmt.Errorf("lodcache/sqlite: create table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS statements_spo_idx ON statements (subject, predicate, object, context)`); err != nil {
		return nil, fmt.Errorf("lodcache/sqlite: create index: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS statements_ctx_idx ON statements (context)`); err != nil {
		return nil, fmt.Errorf("lodcache/sqlite: create index: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("lodcache/sqlite: pragma: %w", err)
	}
	return &Connection{db: db}, nil
}

var _ lodcache.TripleStoreConnection = (*Connection)(nil)

func (c *Connection) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
} {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

// AddStatement adds one statement row.
func (c *Connection) AddStatement(ctx context.Context, st lodcache.Statement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	literal := 0
	if st.ObjectIsLiteral {
		literal = 1
	}
	_, err := c.execer().ExecContext(ctx,
		`INSERT INTO statements (subject, predicate, object, object_is_literal, context) VALUES (?, ?, ?, ?, ?)`,
		st.Subject, st.Predicate, st.Object, literal, st.Context)
	return err
}

// RemoveStatements deletes every row matching the pattern; empty strings
// are wildcards for subject/predicate/object, and context is matched
// exactly (never a wildcard, per the interface contract).
func (c *Connection) RemoveStatements(ctx context.Context, subject, predicate, object, graph string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := "DELETE FROM statements WHERE context = ?"
	args := []any{graph}
	if subject != "" {
		query += " AND subject = ?"
		args = append(args, subject)
	}
	if predicate != "" {
		query += " AND predicate = ?"
		args = append(args, predicate)
	}
	if object != "" {
		query += " AND object = ?"
		args = append(args, object)
	}
	_, err := c.execer().ExecContext(ctx, query, args...)
	return err
}

// Statements returns every row matching the pattern, same wildcard rules
// as RemoveStatements.
func (c *Connection) Statements(ctx context.Context, subject, predicate, object, graph string) ([]lodcache.Statement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := "SELECT subject, predicate, object, object_is_literal, context FROM statements WHERE context = ?"
	args := []any{graph}
	if subject != "" {
		query += " AND subject = ?"
		args = append(args, subject)
	}
	if predicate != "" {
		query += " AND predicate = ?"
		args = append(args, predicate)
	}
	if object != "" {
		query += " AND object = ?"
		args = append(args, object)
	}

	rows, err := c.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lodcache.Statement
	for rows.Next() {
		var st lodcache.Statement
		var literal int
		if err := rows.Scan(&st.Subject, &st.Predicate, &st.Object, &literal, &st.Context); err != nil {
			return nil, err
		}
		st.ObjectIsLiteral = literal != 0
		out = append(out, st)
	}
	return out, rows.Err()
}

// Begin starts a transaction.
func (c *Connection) Begin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return fmt.Errorf("lodcache/sqlite: transaction already open")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

// Commit commits the open transaction.
func (c *Connection) Commit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	return err
}

// Clear deletes every row in the statements table.
func (c *Connection) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.execer().ExecContext(ctx, "DELETE FROM statements")
	return err
}

// Close closes the underlying *sql.DB.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return c.db.Close()
}
