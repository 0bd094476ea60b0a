package commands

import (
	"errors"

	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/pkg/guard"
)

var (
	ErrCancelTripCommandIsNotConstructed = errors.New(
		"CancelTripCommand must be created via NewCancelTripCommand constructor",
	)
	ErrRequesterIDIsRequired = errors.New("requester id must be greater than 0")
)

// CancelTripCommand represents a request to abandon a trip for good.
// Cancellation is available to the traveler who requested the trip and to
// operators; it is terminal, unlike a driver releasing a pending trip.
type CancelTripCommand struct { //nolint:recvcheck //using for validation
	tripID        int64
	requesterID   int64
	requesterRole account.Role

	guard guard.ConstructorGuard
}

// NewCancelTripCommand creates a command to cancel a trip on behalf of the
// given requester.
func NewCancelTripCommand(tripID, requesterID int64, requesterRole account.Role) (CancelTripCommand, error) {
	cancelCommand := CancelTripCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setTripID(tripID),
		cancelCommand.setRequester(requesterID, requesterRole),
	); err != nil {
		return CancelTripCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelTripCommandIsNotConstructed if validation fails.
func (c CancelTripCommand) Validate() error {
	return c.guard.Validate(ErrCancelTripCommandIsNotConstructed)
}

// TripID returns the identifier of the trip being canceled.
func (c CancelTripCommand) TripID() int64 {
	return c.tripID
}

// RequesterID returns the identifier of the user asking for cancellation.
func (c CancelTripCommand) RequesterID() int64 {
	return c.requesterID
}

// RequesterRole returns the role of the user asking for cancellation.
func (c CancelTripCommand) RequesterRole() account.Role {
	return c.requesterRole
}

func (c *CancelTripCommand) setTripID(tripID int64) error {
	if tripID <= 0 {
		return ErrTripIDIsRequired
	}

	c.tripID = tripID
	return nil
}

func (c *CancelTripCommand) setRequester(requesterID int64, requesterRole account.Role) error {
	if requesterID <= 0 {
		return ErrRequesterIDIsRequired
	}
	if err := requesterRole.Validate(); err != nil {
		return err
	}

	c.requesterID = requesterID
	c.requesterRole = requesterRole
	return nil
}
