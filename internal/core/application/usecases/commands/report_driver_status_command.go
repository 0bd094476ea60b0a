package commands

import (
	"errors"

	"tripdesk/internal/core/domain/model/driver"
	"tripdesk/internal/pkg/guard"
)

var ErrReportDriverStatusCommandIsNotConstructed = errors.New(
	"ReportDriverStatusCommand must be created via NewReportDriverStatusCommand constructor",
)

// ReportDriverStatusCommand represents a driver updating their duty status
// and, optionally, their current position. Drivers report this periodically
// from the field; the position feeds the nearest-first routing on trip start.
type ReportDriverStatusCommand struct { //nolint:recvcheck //using for validation
	driverID  int64
	duty      driver.DutyStatus
	latitude  *float64
	longitude *float64

	guard guard.ConstructorGuard
}

// NewReportDriverStatusCommand creates a status report command.
// Latitude and longitude must both be present or both be absent.
func NewReportDriverStatusCommand(
	driverID int64,
	duty string,
	latitude, longitude *float64,
) (ReportDriverStatusCommand, error) {
	statusCommand := ReportDriverStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setDriverID(driverID),
		statusCommand.setDuty(duty),
		statusCommand.setPosition(latitude, longitude),
	); err != nil {
		return ReportDriverStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReportDriverStatusCommandIsNotConstructed if validation fails.
func (c ReportDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrReportDriverStatusCommandIsNotConstructed)
}

// DriverID returns the identifier of the reporting driver.
func (c ReportDriverStatusCommand) DriverID() int64 {
	return c.driverID
}

// Duty returns the reported duty status.
func (c ReportDriverStatusCommand) Duty() driver.DutyStatus {
	return c.duty
}

// Latitude returns the reported latitude, if any.
func (c ReportDriverStatusCommand) Latitude() *float64 {
	return c.latitude
}

// Longitude returns the reported longitude, if any.
func (c ReportDriverStatusCommand) Longitude() *float64 {
	return c.longitude
}

// HasPosition reports whether the command carries a coordinate pair.
func (c ReportDriverStatusCommand) HasPosition() bool {
	return c.latitude != nil && c.longitude != nil
}

func (c *ReportDriverStatusCommand) setDriverID(driverID int64) error {
	if driverID <= 0 {
		return ErrDriverIDIsRequired
	}

	c.driverID = driverID
	return nil
}

func (c *ReportDriverStatusCommand) setDuty(duty string) error {
	parsed, err := driver.DutyStatusFromString(duty)
	if err != nil {
		return err
	}

	c.duty = parsed
	return nil
}

func (c *ReportDriverStatusCommand) setPosition(latitude, longitude *float64) error {
	if (latitude == nil) != (longitude == nil) {
		return errors.New("latitude and longitude must be reported together")
	}

	c.latitude = latitude
	c.longitude = longitude
	return nil
}
