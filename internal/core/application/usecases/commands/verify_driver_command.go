package commands

import (
	"errors"

	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/pkg/guard"
)

var ErrVerifyDriverCommandIsNotConstructed = errors.New(
	"VerifyDriverCommand must be created via NewVerifyDriverCommand constructor",
)

// VerifyDriverCommand represents an operator approving a driver's documents.
// Unverified drivers never receive trip offers.
type VerifyDriverCommand struct { //nolint:recvcheck //using for validation
	driverID      int64
	requesterID   int64
	requesterRole account.Role

	guard guard.ConstructorGuard
}

// NewVerifyDriverCommand creates a command to verify a driver on behalf of
// the given requester.
func NewVerifyDriverCommand(driverID, requesterID int64, requesterRole account.Role) (VerifyDriverCommand, error) {
	verifyCommand := VerifyDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		verifyCommand.setDriverID(driverID),
		verifyCommand.setRequester(requesterID, requesterRole),
	); err != nil {
		return VerifyDriverCommand{}, err
	}

	return verifyCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrVerifyDriverCommandIsNotConstructed if validation fails.
func (c VerifyDriverCommand) Validate() error {
	return c.guard.Validate(ErrVerifyDriverCommandIsNotConstructed)
}

// DriverID returns the identifier of the driver being verified.
func (c VerifyDriverCommand) DriverID() int64 {
	return c.driverID
}

// RequesterID returns the identifier of the verifying operator.
func (c VerifyDriverCommand) RequesterID() int64 {
	return c.requesterID
}

// RequesterRole returns the role of the verifying operator.
func (c VerifyDriverCommand) RequesterRole() account.Role {
	return c.requesterRole
}

func (c *VerifyDriverCommand) setDriverID(driverID int64) error {
	if driverID <= 0 {
		return ErrDriverIDIsRequired
	}

	c.driverID = driverID
	return nil
}

func (c *VerifyDriverCommand) setRequester(requesterID int64, requesterRole account.Role) error {
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
