package commands

import (
	"context"
	"time"

	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/core/domain/services"
	"tripdesk/internal/pkg/errs"
)

// StartTripCommandHandler begins an accepted trip.
// Loads the driver's last reported position and routes the stops nearest
// first from there. A driver with no reported position cannot start:
// Handle returns errs.ErrDriverLocationUnknown.
//
// Example:
//
//	handler := NewStartTripCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to start trip: %w", err)
//	}
type StartTripCommandHandler struct {
	uowFactory UoWFactory
}

// NewStartTripCommandHandler creates a handler for trip start operations.
// Requires a UoWFactory because starting reads the driver aggregate and
// writes the trip aggregate in one transaction.
func NewStartTripCommandHandler(uowFactory UoWFactory) StartTripCommandHandler {
	return StartTripCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the start command.
// Starting an already started trip is a no-op that keeps the original
// departure time. Returns errs.ErrPermissionDenied when the caller is not the
// assigned driver.
func (h StartTripCommandHandler) Handle(ctx context.Context, command StartTripCommand) error {
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

	assignedDriver, err := uow.DriverRepository().Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	if assignedDriver.Position() == nil {
		return errs.ErrDriverLocationUnknown
	}

	priorStatus := aggregate.Status()

	if err = aggregate.Start(time.Now().UTC()); err != nil {
		return err
	}

	planner := services.NewRoutePlanner()
	ordered := planner.OrderWaypoints(assignedDriver.Position(), aggregate.Waypoints())
	if err = aggregate.ApplyRoute(ordered); err != nil {
		return err
	}

	// The first start races releases and cancels, so it is conditional on the
	// row still being Pending. A repeated start only rewrites the route.
	if priorStatus == trip.Pending {
		err = tripRepo.UpdateWhereStatus(ctx, aggregate, trip.Pending)
	} else {
		err = tripRepo.Update(ctx, aggregate)
	}
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
