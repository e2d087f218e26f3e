package database

import "errors"

// State errors for unit-of-work misuse. These cover lifecycle mistakes
// only; storage failures from the driver propagate wrapped but unchanged.
var (
	// ErrUnitCompleted is returned when a statement is executed against a
	// unit that has already been finalized.
	ErrUnitCompleted = errors.New("unit of work already finalized")

	// ErrNoOutcome is returned when a read-write unit is finalized without
	// an explicit commit or rollback decision.
	ErrNoOutcome = errors.New("transaction opened but no outcome specified")

	// ErrNoInsert is returned by LastInsertID when no row has been
	// inserted on the unit's connection.
	ErrNoInsert = errors.New("no row inserted on this connection")
)
