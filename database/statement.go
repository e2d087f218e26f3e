package database

import (
	"database/sql"
	"fmt"
)

// Params are named query parameters. They are always bound through the
// driver, never interpolated into the query text.
type Params map[string]any

// Stmt is a prepared, parameter-bound query returning rows of a fixed
// shape. It executes against the connection and transaction of the unit
// it was prepared on.
type Stmt[T any] struct {
	unit  *Unit
	query string
	args  []any
	scan  func(*sql.Rows) (T, error)
}

// Prepare binds named parameters into a reusable statement handle. No
// execution occurs until Get, All, or Run is called.
func Prepare[T any](u *Unit, query string, params Params, scan func(*sql.Rows) (T, error)) *Stmt[T] {
	args := make([]any, 0, len(params))
	for name, value := range params {
		args = append(args, sql.Named(name, value))
	}
	return &Stmt[T]{unit: u, query: query, args: args, scan: scan}
}

// Get returns the first matching row. Absence is reported through the
// boolean, not an error.
func (s *Stmt[T]) Get() (T, bool, error) {
	var zero T

	rows, err := s.execQuery()
	if err != nil {
		return zero, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return zero, false, rows.Err()
	}

	result, err := s.scan(rows)
	if err != nil {
		return zero, false, fmt.Errorf("failed to scan row: %w", err)
	}
	return result, true, rows.Err()
}

// All returns every matching row, an empty slice if none. Ordering
// follows the query's own ORDER BY.
func (s *Stmt[T]) All() ([]T, error) {
	rows, err := s.execQuery()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		result, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// Run executes a mutating statement and returns the number of affected
// rows.
func (s *Stmt[T]) Run() (int64, error) {
	if s.unit.completed {
		return 0, ErrUnitCompleted
	}
	s.unit.logStatement(s.query)

	result, err := s.unit.execSurface().ExecContext(s.unit.ctx, s.query, s.args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Exec prepares and runs a mutating statement in one step, for writes
// that never return rows.
func Exec(u *Unit, query string, params Params) (int64, error) {
	stmt := Prepare(u, query, params, func(*sql.Rows) (struct{}, error) {
		return struct{}{}, nil
	})
	return stmt.Run()
}

func (s *Stmt[T]) execQuery() (*sql.Rows, error) {
	if s.unit.completed {
		return nil, ErrUnitCompleted
	}
	s.unit.logStatement(s.query)
	return s.unit.execSurface().QueryContext(s.unit.ctx, s.query, s.args...)
}
