package commands

import (
	"context"

	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/pkg/errs"
)

// ReleaseTripCommandHandler returns a pending trip to the offer pool.
// Only the driver who holds the trip may release it, and only before starting.
// The write is conditional on the stored status still being Pending so a late
// release cannot undo a concurrent start or cancel.
type ReleaseTripCommandHandler struct {
	uowFactory TripUoWFactory
}

// NewReleaseTripCommandHandler creates a handler for trip release operations.
func NewReleaseTripCommandHandler(uowFactory TripUoWFactory) ReleaseTripCommandHandler {
	return ReleaseTripCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the release command.
// Returns errs.ErrPermissionDenied when the caller is not the assigned driver
// and errs.ErrAlreadyHandled when the trip moved out of Pending concurrently.
func (h ReleaseTripCommandHandler) Handle(ctx context.Context, command ReleaseTripCommand) error {
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

	if aggregate.Driver() == nil || *aggregate.Driver() != command.DriverID() {
		return errs.ErrPermissionDenied
	}

	if err = aggregate.Release(); err != nil {
		return err
	}

	if err = tripRepo.UpdateWhereStatus(ctx, aggregate, trip.Pending); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
