// Package ports defines the contracts between the core and infrastructure:
// repositories, the unit of work, and the outbound notification sink. These
// interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"tripdesk/internal/core/domain/model/trip"
)

// TripRepository defines the persistence contract for trip aggregates.
// A trip and its waypoints are stored together; Add and Update are
// all-or-nothing within the surrounding unit of work.
type TripRepository interface {
	// Add persists a new trip aggregate with all its waypoints and assigns
	// the storage-generated id to the aggregate.
	Add(ctx context.Context, aggregate *trip.Trip) error

	// Update persists changes to an existing trip aggregate.
	Update(ctx context.Context, aggregate *trip.Trip) error

	// UpdateWhereStatus persists the aggregate only if the stored row still
	// carries the expected status. When another writer moved the trip out of
	// that status first, no row is touched and errs.ErrAlreadyHandled is
	// returned. This is the storage-boundary guard that keeps two concurrent
	// accepts from both succeeding.
	UpdateWhereStatus(ctx context.Context, aggregate *trip.Trip, expected trip.Status) error

	// Get retrieves a trip aggregate by id, waypoints included.
	// Returns errs.ObjectNotFoundError when no such trip exists.
	Get(ctx context.Context, id int64) (*trip.Trip, error)

	// GetAllAvailable retrieves every trip currently in the Available status,
	// oldest first.
	GetAllAvailable(ctx context.Context) ([]*trip.Trip, error)

	// GetByDriver retrieves the trips assigned to a driver, newest first.
	GetByDriver(ctx context.Context, driverID int64) ([]*trip.Trip, error)
}
