package commands

import (
	"errors"

	"tripdesk/internal/pkg/guard"
)

var ErrFinishTripCommandIsNotConstructed = errors.New(
	"FinishTripCommand must be created via NewFinishTripCommand constructor",
)

// FinishTripCommand represents a driver completing a trip in progress.
type FinishTripCommand struct { //nolint:recvcheck //using for validation
	tripID   int64
	driverID int64

	guard guard.ConstructorGuard
}

// NewFinishTripCommand creates a command for a driver to finish a trip.
func NewFinishTripCommand(tripID, driverID int64) (FinishTripCommand, error) {
	finishCommand := FinishTripCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		finishCommand.setTripID(tripID),
		finishCommand.setDriverID(driverID),
	); err != nil {
		return FinishTripCommand{}, err
	}

	return finishCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrFinishTripCommandIsNotConstructed if validation fails.
func (c FinishTripCommand) Validate() error {
	return c.guard.Validate(ErrFinishTripCommandIsNotConstructed)
}

// TripID returns the identifier of the trip being finished.
func (c FinishTripCommand) TripID() int64 {
	return c.tripID
}

// DriverID returns the identifier of the finishing driver.
func (c FinishTripCommand) DriverID() int64 {
	return c.driverID
}

func (c *FinishTripCommand) setTripID(tripID int64) error {
	if tripID <= 0 {
		return ErrTripIDIsRequired
	}

	c.tripID = tripID
	return nil
}

func (c *FinishTripCommand) setDriverID(driverID int64) error {
	if driverID <= 0 {
		return ErrDriverIDIsRequired
	}

	c.driverID = driverID
	return nil
}
