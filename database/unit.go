package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// Outcome is the finalization decision for a Unit.
type Outcome int

const (
	// None closes the unit without a transaction decision. Only valid for
	// read-only units; a read-write unit finalized with None fails with
	// ErrNoOutcome.
	None Outcome = iota
	Commit
	Rollback
)

// Unit scopes one database connection, and for read-write units one
// transaction, to a single logical operation. Every exit path must call
// Complete; it is idempotent so a success-path call and a deferred
// safety-net call can coexist.
type Unit struct {
	ctx       context.Context
	conn      *sql.Conn
	tx        *sql.Tx
	readOnly  bool
	completed bool
}

// NewUnit acquires a dedicated connection from the pool. Read-write units
// begin a transaction immediately.
func (db *DB) NewUnit(ctx context.Context, readOnly bool) (*Unit, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	u := &Unit{ctx: ctx, conn: conn, readOnly: readOnly}

	if !readOnly {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		u.tx = tx
	}

	return u, nil
}

// ReadOnly reports whether the unit was constructed without a transaction.
func (u *Unit) ReadOnly() bool {
	return u.readOnly
}

// LastInsertID returns the rowid of the most recent insert on this
// connection, or ErrNoInsert if nothing was inserted.
func (u *Unit) LastInsertID() (int64, error) {
	stmt := Prepare(u, `SELECT last_insert_rowid() AS id`, nil, scanID)

	id, ok, err := stmt.Get()
	if err != nil {
		return 0, err
	}
	if !ok || id == 0 {
		return 0, ErrNoInsert
	}
	return id, nil
}

// Complete finalizes the unit exactly once: commits or rolls back the
// transaction if one exists, then releases the connection. A second call
// is a no-op regardless of the outcome argument.
func (u *Unit) Complete(outcome Outcome) error {
	if u.completed {
		return nil
	}
	u.completed = true

	if u.tx == nil {
		// Read-only unit: any outcome is a plain close.
		return u.conn.Close()
	}

	switch outcome {
	case Commit:
		if err := u.tx.Commit(); err != nil {
			u.conn.Close()
			return fmt.Errorf("failed to commit: %w", err)
		}
	case Rollback:
		if err := u.tx.Rollback(); err != nil {
			u.conn.Close()
			return fmt.Errorf("failed to rollback: %w", err)
		}
	case None:
		// The caller opened a transaction but never decided. Roll back so
		// the connection is not released holding an open transaction.
		u.tx.Rollback()
		u.conn.Close()
		return ErrNoOutcome
	}

	return u.conn.Close()
}

// dbtx is the query execution surface shared by *sql.Conn and *sql.Tx.
type dbtx interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (u *Unit) execSurface() dbtx {
	if u.tx != nil {
		return u.tx
	}
	return u.conn
}

// logStatement logs executed SQL at debug level, skipping schema and
// pragma noise.
func (u *Unit) logStatement(query string) {
	start := strings.ToLower(strings.TrimSpace(query))
	if strings.HasPrefix(start, "pragma") || strings.HasPrefix(start, "create") {
		return
	}
	slog.Debug("sql", "query", strings.Join(strings.Fields(query), " "))
}

func scanID(rows *sql.Rows) (int64, error) {
	var id int64
	err := rows.Scan(&id)
	return id, err
}
