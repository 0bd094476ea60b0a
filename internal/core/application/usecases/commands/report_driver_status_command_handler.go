package commands

import (
	"context"
	"time"

	"tripdesk/internal/core/domain/model/kernel"
)

// ReportDriverStatusCommandHandler records a driver's duty status change and
// the coordinate it was reported from.
type ReportDriverStatusCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewReportDriverStatusCommandHandler creates a handler for duty status reports.
func NewReportDriverStatusCommandHandler(uowFactory DriverUoWFactory) ReportDriverStatusCommandHandler {
	return ReportDriverStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status report.
func (h ReportDriverStatusCommandHandler) Handle(
	ctx context.Context,
	command ReportDriverStatusCommand,
) error {
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

	driverRepo := uow.DriverRepository()

	aggregate, err := driverRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	if err = aggregate.SetDuty(command.Duty()); err != nil {
		return err
	}

	if command.HasPosition() {
		point, pointErr := kernel.NewGeoPoint(*command.Latitude(), *command.Longitude())
		if pointErr != nil {
			return pointErr
		}
		if err = aggregate.ReportPosition(point, time.Now().UTC()); err != nil {
			return err
		}
	}

	if err = driverRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
