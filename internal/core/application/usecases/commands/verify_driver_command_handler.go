package commands

import (
	"context"

	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/pkg/errs"
)

// VerifyDriverCommandHandler marks a driver as verified.
// Superusers may verify any driver; admins only those assigned to them.
// Verifying an already verified driver is a no-op.
type VerifyDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewVerifyDriverCommandHandler creates a handler for driver verification.
func NewVerifyDriverCommandHandler(uowFactory DriverUoWFactory) VerifyDriverCommandHandler {
	return VerifyDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the verification command.
// Returns errs.ErrPermissionDenied when the requester may not manage this
// driver.
func (h VerifyDriverCommandHandler) Handle(ctx context.Context, command VerifyDriverCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if !command.RequesterRole().CanManageDrivers() {
		return errs.ErrPermissionDenied
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	if command.RequesterRole() == account.RoleAdmin {
		assigned, err := driverRepo.IsAssignedToAdmin(ctx, command.RequesterID(), command.DriverID())
		if err != nil {
			return err
		}
		if !assigned {
			return errs.ErrPermissionDenied
		}
	}

	aggregate, err := driverRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	aggregate.Verify()

	if err = driverRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
