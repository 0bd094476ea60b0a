package commands

import (
	"context"

	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/pkg/errs"
)

// CancelTripCommandHandler abandons a trip permanently.
// Operators may cancel any trip; a traveler may only cancel their own.
// The assigned driver, if any, stays on the record for audit purposes.
type CancelTripCommandHandler struct {
	uowFactory TripUoWFactory
}

// NewCancelTripCommandHandler creates a handler for trip cancel operations.
func NewCancelTripCommandHandler(uowFactory TripUoWFactory) CancelTripCommandHandler {
	return CancelTripCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancel command.
// Returns errs.ErrPermissionDenied when the requester is neither an operator
// nor the trip's traveler.
func (h CancelTripCommandHandler) Handle(ctx context.Context, command CancelTripCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tripRepo := uow.TripRepository()

	aggregate, err := tripRepo.Get(ctx, command.TripID())
	if err != nil {
		return err
	}

	if !canCancel(command, aggregate.Traveler()) {
		return errs.ErrPermissionDenied
	}

	if err = aggregate.Cancel(); err != nil {
		return err
	}

	if err = tripRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func canCancel(command CancelTripCommand, travelerID *int64) bool {
	if command.RequesterRole() == account.RoleAdmin || command.RequesterRole() == account.RoleSuperuser {
		return true
	}
	return travelerID != nil && *travelerID == command.RequesterID()
}
