package commands

import (
	"context"

	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/pkg/errs"
)

// AcceptTripCommandHandler moves an available trip into the pending state for
// one driver. The read-check-write is raced by other drivers tapping the same
// offer, so the final write is conditional on the stored status still being
// Available. Exactly one accept succeeds; the rest get errs.ErrAlreadyHandled
// regardless of interleaving.
//
// Example:
//
//	handler := NewAcceptTripCommandHandler(uowFactory)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrAlreadyHandled):
//	    notify(driver, "El viaje ya fue tomado por otro conductor")
//	case err != nil:
//	    return err
//	}
type AcceptTripCommandHandler struct {
	uowFactory TripUoWFactory
}

// NewAcceptTripCommandHandler creates a handler for trip accept operations.
func NewAcceptTripCommandHandler(uowFactory TripUoWFactory) AcceptTripCommandHandler {
	return AcceptTripCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the accept command.
// Returns errs.ErrAlreadyHandled when the trip is no longer available, either
// at read time or because a concurrent accept won the conditional update.
func (h AcceptTripCommandHandler) Handle(ctx context.Context, command AcceptTripCommand) error {
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

	if aggregate.Status() != trip.Available {
		return errs.ErrAlreadyHandled
	}

	if err = aggregate.Accept(command.DriverID(), command.VehicleID()); err != nil {
		return err
	}

	if err = tripRepo.UpdateWhereStatus(ctx, aggregate, trip.Available); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
