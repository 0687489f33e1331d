// Package errkind holds the closed set of error kinds every public
// operation in this core returns: exactly one of these, wrapped with a
// human-readable detail, or a success payload. Domain packages define their
// own New*Error constructors and Is*Error predicates around these sentinels
// rather than inventing new top-level error kinds, so callers can always
// branch on errors.Is against this package regardless of which domain raised
// it.
package errkind

import "errors"

var (
	// UnknownEntity: a referenced SKU, location, order, or other entity
	// does not exist.
	UnknownEntity = errors.New("unknown entity")

	// InvalidState: the requested operation is not legal from the
	// entity's current state (e.g. allocating an already-ALLOCATED order).
	InvalidState = errors.New("invalid state for operation")

	// NoStock: insufficient available quantity to satisfy a pick or
	// allocation.
	NoStock = errors.New("no stock available")

	// OverPick: a pick quantity exceeds what remains allocated.
	OverPick = errors.New("pick quantity exceeds allocation")

	// SerialMismatch: serial count doesn't match quantity, or a serial
	// collides with one already registered.
	SerialMismatch = errors.New("serial count mismatch")

	// InvalidSerial: a named serial doesn't exist, or isn't in the
	// expected status/location for the operation.
	InvalidSerial = errors.New("invalid serial number")

	// Conflict: an optimistic version check failed after exhausting
	// retries.
	Conflict = errors.New("version conflict")

	// AlreadyProcessed: a request was already applied; reapplication is
	// rejected rather than silently repeated.
	AlreadyProcessed = errors.New("already processed")

	// Empty: an operation that requires at least one candidate found
	// none (e.g. creating a cycle count with no eligible inventory rows).
	Empty = errors.New("no eligible candidates")
)
