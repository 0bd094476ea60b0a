package commands

import (
	"errors"

	"tripdesk/internal/pkg/guard"
)

var ErrReleaseTripCommandIsNotConstructed = errors.New(
	"ReleaseTripCommand must be created via NewReleaseTripCommand constructor",
)

// ReleaseTripCommand represents a driver giving back a trip they accepted but
// have not started. The trip returns to the offer pool.
type ReleaseTripCommand struct { //nolint:recvcheck //using for validation
	tripID   int64
	driverID int64

	guard guard.ConstructorGuard
}

// NewReleaseTripCommand creates a command for a driver to release a pending trip.
func NewReleaseTripCommand(tripID, driverID int64) (ReleaseTripCommand, error) {
	releaseCommand := ReleaseTripCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		releaseCommand.setTripID(tripID),
		releaseCommand.setDriverID(driverID),
	); err != nil {
		return ReleaseTripCommand{}, err
	}

	return releaseCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReleaseTripCommandIsNotConstructed if validation fails.
func (c ReleaseTripCommand) Validate() error {
	return c.guard.Validate(ErrReleaseTripCommandIsNotConstructed)
}

// TripID returns the identifier of the trip being released.
func (c ReleaseTripCommand) TripID() int64 {
	return c.tripID
}

// DriverID returns the identifier of the releasing driver.
func (c ReleaseTripCommand) DriverID() int64 {
	return c.driverID
}

func (c *ReleaseTripCommand) setTripID(tripID int64) error {
	if tripID <= 0 {
		return ErrTripIDIsRequired
	}

	c.tripID = tripID
	return nil
}

func (c *ReleaseTripCommand) setDriverID(driverID int64) error {
	if driverID <= 0 {
		return ErrDriverIDIsRequired
	}

	c.driverID = driverID
	return nil
}
