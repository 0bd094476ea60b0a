package ports

import (
	"context"

	"tripdesk/internal/core/domain/model/driver"
)

// DriverRepository defines the persistence contract for the driver directory.
type DriverRepository interface {
	// Add persists a new driver and assigns the storage-generated id.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver by id, vehicle and last position included.
	// Returns errs.ObjectNotFoundError when no such driver exists.
	Get(ctx context.Context, id int64) (*driver.Driver, error)

	// GetAllOfferable retrieves the verified drivers whose duty status
	// accepts new trip offers.
	GetAllOfferable(ctx context.Context) ([]*driver.Driver, error)

	// IsAssignedToAdmin reports whether the driver belongs to the given
	// admin's portfolio. Superusers bypass this check at the use-case level.
	IsAssignedToAdmin(ctx context.Context, adminID, driverID int64) (bool, error)
}
