package commands

import (
	"context"
	"time"

	"tripdesk/internal/pkg/errs"
)

// FinishTripCommandHandler completes a trip in progress, recording the
// arrival time. Only the assigned driver may finish a trip.
type FinishTripCommandHandler struct {
	uowFactory TripUoWFactory
}

// NewFinishTripCommandHandler creates a handler for trip finish operations.
func NewFinishTripCommandHandler(uowFactory TripUoWFactory) FinishTripCommandHandler {
	return FinishTripCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the finish command.
// Returns errs.ErrPermissionDenied when the caller is not the assigned driver.
func (h FinishTripCommandHandler) Handle(ctx context.Context, command FinishTripCommand) error {
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

	if err = aggregate.Finish(time.Now().UTC()); err != nil {
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
