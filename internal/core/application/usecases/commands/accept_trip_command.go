package commands

import (
	"errors"

	"tripdesk/internal/pkg/guard"
)

var (
	ErrAcceptTripCommandIsNotConstructed = errors.New(
		"AcceptTripCommand must be created via NewAcceptTripCommand constructor",
	)
	ErrTripIDIsRequired   = errors.New("trip id must be greater than 0")
	ErrDriverIDIsRequired = errors.New("driver id must be greater than 0")
)

// AcceptTripCommand represents a driver claiming an available trip.
// At most one of the concurrent accepts for the same trip may win; the losers
// receive errs.ErrAlreadyHandled from the handler.
//
// Example:
//
//	cmd, err := NewAcceptTripCommand(tripID, driverID, vehicleID)
//	if err != nil {
//	    return err
//	}
//
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrAlreadyHandled) {
//	    fmt.Println("Another driver got there first")
//	}
type AcceptTripCommand struct { //nolint:recvcheck //using for validation
	tripID    int64
	driverID  int64
	vehicleID *int64

	guard guard.ConstructorGuard
}

// NewAcceptTripCommand creates a command for a driver to claim a trip.
// The vehicle is optional; drivers without a registered vehicle may still
// accept passenger trips.
func NewAcceptTripCommand(tripID, driverID int64, vehicleID *int64) (AcceptTripCommand, error) {
	acceptCommand := AcceptTripCommand{
		vehicleID: vehicleID,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		acceptCommand.setTripID(tripID),
		acceptCommand.setDriverID(driverID),
	); err != nil {
		return AcceptTripCommand{}, err
	}

	return acceptCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAcceptTripCommandIsNotConstructed if validation fails.
func (c AcceptTripCommand) Validate() error {
	return c.guard.Validate(ErrAcceptTripCommandIsNotConstructed)
}

// TripID returns the identifier of the trip being claimed.
func (c AcceptTripCommand) TripID() int64 {
	return c.tripID
}

// DriverID returns the identifier of the claiming driver.
func (c AcceptTripCommand) DriverID() int64 {
	return c.driverID
}

// VehicleID returns the optional vehicle the driver will use.
func (c AcceptTripCommand) VehicleID() *int64 {
	return c.vehicleID
}

func (c *AcceptTripCommand) setTripID(tripID int64) error {
	if tripID <= 0 {
		return ErrTripIDIsRequired
	}

	c.tripID = tripID
	return nil
}

func (c *AcceptTripCommand) setDriverID(driverID int64) error {
	if driverID <= 0 {
		return ErrDriverIDIsRequired
	}

	c.driverID = driverID
	return nil
}
