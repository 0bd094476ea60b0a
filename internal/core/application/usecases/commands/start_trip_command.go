package commands

import (
	"errors"

	"tripdesk/internal/pkg/guard"
)

var ErrStartTripCommandIsNotConstructed = errors.New(
	"StartTripCommand must be created via NewStartTripCommand constructor",
)

// StartTripCommand represents a driver beginning an accepted trip.
// Starting records the departure time and reorders the trip's stops by
// proximity from the driver's current position.
type StartTripCommand struct { //nolint:recvcheck //using for validation
	tripID   int64
	driverID int64

	guard guard.ConstructorGuard
}

// NewStartTripCommand creates a command for a driver to start a pending trip.
func NewStartTripCommand(tripID, driverID int64) (StartTripCommand, error) {
	startCommand := StartTripCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		startCommand.setTripID(tripID),
		startCommand.setDriverID(driverID),
	); err != nil {
		return StartTripCommand{}, err
	}

	return startCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStartTripCommandIsNotConstructed if validation fails.
func (c StartTripCommand) Validate() error {
	return c.guard.Validate(ErrStartTripCommandIsNotConstructed)
}

// TripID returns the identifier of the trip being started.
func (c StartTripCommand) TripID() int64 {
	return c.tripID
}

// DriverID returns the identifier of the starting driver.
func (c StartTripCommand) DriverID() int64 {
	return c.driverID
}

func (c *StartTripCommand) setTripID(tripID int64) error {
	if tripID <= 0 {
		return ErrTripIDIsRequired
	}

	c.tripID = tripID
	return nil
}

func (c *StartTripCommand) setDriverID(driverID int64) error {
	if driverID <= 0 {
		return ErrDriverIDIsRequired
	}

	c.driverID = driverID
	return nil
}
