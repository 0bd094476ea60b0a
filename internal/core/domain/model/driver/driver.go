package driver

import (
	"errors"
	"time"

	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/pkg/errs"
)

// ErrDriverIsNotConstructed is returned when a Driver instance was not
// created through NewDriver or RestoreDriver.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

// Vehicle is the car registered to a driver.
type Vehicle struct {
	ID    int64
	Make  string
	Model string
	Year  int
	Color string
	Plate string
	Seats int
}

// Driver is a fleet member. It carries the verification flag an admin
// toggles, the self-reported duty status, and the last reported position the
// trip-start route planner reads.
type Driver struct {
	id         int64
	fullName   string
	license    string
	phone      string
	isVerified bool
	duty       DutyStatus
	rating     float64
	totalTrips int
	vehicle    *Vehicle

	position          *kernel.GeoPoint
	positionUpdatedAt *time.Time

	isConstructed bool
}

// NewDriver creates an unverified driver in the offline duty status.
func NewDriver(fullName, license, phone string) (*Driver, error) {
	if fullName == "" {
		return nil, errs.NewValueIsRequiredError("fullName")
	}
	if license == "" {
		return nil, errs.NewValueIsRequiredError("licenseNumber")
	}

	return &Driver{
		fullName:      fullName,
		license:       license,
		phone:         phone,
		duty:          DutyOffline,
		isConstructed: true,
	}, nil
}

// RestoreDriver reconstructs a driver from persistence.
func RestoreDriver(
	id int64,
	fullName, license, phone string,
	isVerified bool,
	duty DutyStatus,
	rating float64,
	totalTrips int,
	vehicle *Vehicle,
	position *kernel.GeoPoint,
	positionUpdatedAt *time.Time,
) (*Driver, error) {
	if err := duty.Validate(); err != nil {
		return nil, err
	}

	return &Driver{
		id:                id,
		fullName:          fullName,
		license:           license,
		phone:             phone,
		isVerified:        isVerified,
		duty:              duty,
		rating:            rating,
		totalTrips:        totalTrips,
		vehicle:           vehicle,
		position:          position,
		positionUpdatedAt: positionUpdatedAt,
		isConstructed:     true,
	}, nil
}

// Validate ensures the Driver was properly constructed.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// ID returns the driver's identifier, 0 until persisted.
func (d *Driver) ID() int64 {
	return d.id
}

// AssignID sets the storage-generated identifier after the first insert.
func (d *Driver) AssignID(id int64) {
	if d.id == 0 {
		d.id = id
	}
}

// FullName returns the driver's display name.
func (d *Driver) FullName() string {
	return d.fullName
}

// LicenseNumber returns the driving license number.
func (d *Driver) LicenseNumber() string {
	return d.license
}

// Phone returns the driver's contact number.
func (d *Driver) Phone() string {
	return d.phone
}

// IsVerified reports whether an admin approved this driver.
func (d *Driver) IsVerified() bool {
	return d.isVerified
}

// Verify marks the driver as approved. Idempotent.
func (d *Driver) Verify() {
	d.isVerified = true
}

// Duty returns the current duty status.
func (d *Driver) Duty() DutyStatus {
	return d.duty
}

// SetDuty updates the duty status after validating it.
func (d *Driver) SetDuty(duty DutyStatus) error {
	if err := duty.Validate(); err != nil {
		return err
	}
	d.duty = duty
	return nil
}

// Rating returns the driver's average rating.
func (d *Driver) Rating() float64 {
	return d.rating
}

// TotalTrips returns the completed trip count.
func (d *Driver) TotalTrips() int {
	return d.totalTrips
}

// Vehicle returns the registered vehicle, nil when none is registered.
func (d *Driver) Vehicle() *Vehicle {
	return d.vehicle
}

// Position returns the last reported coordinate, nil when never reported.
func (d *Driver) Position() *kernel.GeoPoint {
	return d.position
}

// PositionUpdatedAt returns when the position was last reported.
func (d *Driver) PositionUpdatedAt() *time.Time {
	return d.positionUpdatedAt
}

// ReportPosition records the driver's current coordinate.
func (d *Driver) ReportPosition(point kernel.GeoPoint, at time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}

	at = at.UTC()
	d.position = &point
	d.positionUpdatedAt = &at
	return nil
}

// IsOfferable reports whether the driver should be shown new trip offers:
// verified and on a duty status that accepts work.
func (d *Driver) IsOfferable() bool {
	return d.isVerified && d.duty.CanReceiveOffers()
}
