package trip

import (
	"errors"
	"fmt"
	"time"

	"tripdesk/internal/pkg/errs"
)

var (
	// ErrTripIsNotConstructed is returned when a Trip instance was not created
	// through one of the New*Trip factory methods or RestoreTrip.
	ErrTripIsNotConstructed = errors.New("Trip must be created via a trip constructor")
)

// Trip is the aggregate root for a transport request: a passenger ride, a
// parcel delivery or a custom (one-way, round, tour) trip. It owns the
// ordered waypoint list and enforces the status lifecycle.
//
// Trip follows these invariants:
//   - Exactly one kind payload matching the kind is present
//   - An Available trip has no driver; Pending/InProgress/Finished trips do
//   - Waypoint counts follow the rules of the kind
//   - Status transitions follow the state machine in Status
type Trip struct {
	id             int64
	kind           Kind
	customKind     CustomKind
	status         Status
	travelerID     *int64
	driverID       *int64
	vehicleID      *int64
	price          *float64
	notes          string
	passengerCount int
	departureTime  *time.Time
	arrivalTime    *time.Time
	createdAt      time.Time
	waypoints      []Waypoint

	oneWay *OneWayDetails
	round  *RoundDetails
	tour   *TourDetails
	parcel *ParcelDetails

	isConstructed bool
}

// NewTripParams carries the attributes shared by every trip kind.
// DriverID is optional; when set, the trip starts out Pending instead of
// Available. VehicleID is only meaningful together with DriverID.
type NewTripParams struct {
	TravelerID     *int64
	Waypoints      []Waypoint
	PassengerCount int
	Price          *float64
	Notes          string
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
	DriverID       *int64
	VehicleID      *int64
}

// NewNormalTrip creates a plain passenger trip without a kind payload.
func NewNormalTrip(params NewTripParams) (*Trip, error) {
	t, err := newTrip(KindNormal, CustomKindNone, params)
	if err != nil {
		return nil, err
	}
	if len(t.waypoints) < 2 {
		return nil, errs.NewValueIsInvalidErrorWithCause("addresses",
			fmt.Errorf("trip requires at least 2 addresses, got %d", len(t.waypoints)))
	}
	return t, nil
}

// NewOneWayTrip creates a one-way custom trip.
//
// Parameters:
//   - params: shared trip attributes; exactly 2 addresses required
//   - details: shared-ride and reservation flags
//
// Returns:
//   - *Trip: the created trip, Available or Pending depending on DriverID
//   - error: validation error if any rule of the kind is violated
func NewOneWayTrip(params NewTripParams, details OneWayDetails) (*Trip, error) {
	t, err := newTrip(KindCustom, CustomKindOneWay, params)
	if err != nil {
		return nil, err
	}
	if err := details.validate(t.waypoints); err != nil {
		return nil, err
	}
	t.oneWay = &details
	return t, nil
}

// NewRoundTrip creates a round custom trip. Return-leg waypoints carry order
// indexes above 100 and are excluded from the two-address rule.
func NewRoundTrip(params NewTripParams, details RoundDetails) (*Trip, error) {
	t, err := newTrip(KindCustom, CustomKindRound, params)
	if err != nil {
		return nil, err
	}
	if err := details.validate(t.waypoints); err != nil {
		return nil, err
	}
	t.round = &details
	return t, nil
}

// NewTourTrip creates a tour custom trip with at least 2 addresses.
func NewTourTrip(params NewTripParams, details TourDetails) (*Trip, error) {
	t, err := newTrip(KindCustom, CustomKindTour, params)
	if err != nil {
		return nil, err
	}
	if err := details.validate(t.waypoints); err != nil {
		return nil, err
	}
	t.tour = &details
	return t, nil
}

// NewParcelTrip creates a package delivery trip with distinguished pickup and
// delivery addresses.
func NewParcelTrip(params NewTripParams, details ParcelDetails) (*Trip, error) {
	t, err := newTrip(KindParcel, CustomKindNone, params)
	if err != nil {
		return nil, err
	}
	if err := details.validate(t.waypoints); err != nil {
		return nil, err
	}
	t.parcel = &details
	return t, nil
}

func newTrip(kind Kind, customKind CustomKind, params NewTripParams) (*Trip, error) {
	if params.PassengerCount == 0 {
		params.PassengerCount = 1
	}
	if params.PassengerCount < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("passengerCount",
			fmt.Errorf("%d is not a valid passenger count", params.PassengerCount))
	}
	for _, w := range params.Waypoints {
		if w.AddressText == "" {
			return nil, errs.NewValueIsRequiredError("addressText")
		}
		if err := w.Role.Validate(); err != nil {
			return nil, err
		}
	}

	status := Available
	if params.DriverID != nil {
		status = Pending
	} else if params.VehicleID != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("vehicleId",
			fmt.Errorf("a vehicle cannot be set without a driver"))
	}

	return &Trip{
		kind:           kind,
		customKind:     customKind,
		status:         status,
		travelerID:     params.TravelerID,
		driverID:       params.DriverID,
		vehicleID:      params.VehicleID,
		price:          params.Price,
		notes:          params.Notes,
		passengerCount: params.PassengerCount,
		departureTime:  params.DepartureTime,
		arrivalTime:    params.ArrivalTime,
		createdAt:      time.Now().UTC(),
		waypoints:      params.Waypoints,
		isConstructed:  true,
	}, nil
}

// RestoreTrip reconstructs a trip from persistence without re-running the
// creation-time defaults. Status/driver consistency is still enforced so a
// corrupted row cannot produce an inconsistent aggregate.
func RestoreTrip(
	id int64,
	kind Kind,
	customKind CustomKind,
	status Status,
	travelerID *int64,
	driverID *int64,
	vehicleID *int64,
	price *float64,
	notes string,
	passengerCount int,
	departureTime *time.Time,
	arrivalTime *time.Time,
	createdAt time.Time,
	waypoints []Waypoint,
	oneWay *OneWayDetails,
	round *RoundDetails,
	tour *TourDetails,
	parcel *ParcelDetails,
) (*Trip, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := status.ValidateCanHaveDriver(driverID != nil); err != nil {
		return nil, err
	}

	return &Trip{
		id:             id,
		kind:           kind,
		customKind:     customKind,
		status:         status,
		travelerID:     travelerID,
		driverID:       driverID,
		vehicleID:      vehicleID,
		price:          price,
		notes:          notes,
		passengerCount: passengerCount,
		departureTime:  departureTime,
		arrivalTime:    arrivalTime,
		createdAt:      createdAt,
		waypoints:      waypoints,
		oneWay:         oneWay,
		round:          round,
		tour:           tour,
		parcel:         parcel,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Trip instance was properly constructed.
func (t *Trip) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTripIsNotConstructed
	}
	return nil
}

// IsEqual compares two trips by their identifiers.
func (t *Trip) IsEqual(other *Trip) bool {
	return other != nil && t.id != 0 && t.id == other.id
}

// ID returns the trip's identifier, 0 until the trip is persisted.
func (t *Trip) ID() int64 {
	return t.id
}

// AssignID sets the storage-generated identifier after the first insert.
// It fails if the trip already has one.
func (t *Trip) AssignID(id int64) error {
	if t.id != 0 {
		return errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("trip already has id %d", t.id))
	}
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("%d is not a valid trip id", id))
	}
	t.id = id
	return nil
}

// Kind returns the trip kind.
func (t *Trip) Kind() Kind {
	return t.kind
}

// CustomKind returns the custom-trip refinement, CustomKindNone for
// non-custom trips.
func (t *Trip) CustomKind() CustomKind {
	return t.customKind
}

// Status returns the current lifecycle status.
func (t *Trip) Status() Status {
	return t.status
}

// Traveler returns the requesting traveler's id, nil for trips created by an
// operator on someone's behalf.
func (t *Trip) Traveler() *int64 {
	return t.travelerID
}

// Driver returns the assigned driver's id, nil when unassigned.
func (t *Trip) Driver() *int64 {
	return t.driverID
}

// Vehicle returns the assigned vehicle's id, nil when unassigned.
func (t *Trip) Vehicle() *int64 {
	return t.vehicleID
}

// Price returns the agreed price, nil when not priced yet.
func (t *Trip) Price() *float64 {
	return t.price
}

// Notes returns the free-text instructions attached to the trip.
func (t *Trip) Notes() string {
	return t.notes
}

// PassengerCount returns the number of passengers.
func (t *Trip) PassengerCount() int {
	return t.passengerCount
}

// DepartureTime returns the planned or actual departure time.
func (t *Trip) DepartureTime() *time.Time {
	return t.departureTime
}

// ArrivalTime returns the estimated or actual arrival time.
func (t *Trip) ArrivalTime() *time.Time {
	return t.arrivalTime
}

// CreatedAt returns the creation timestamp.
func (t *Trip) CreatedAt() time.Time {
	return t.createdAt
}

// Waypoints returns the trip's waypoints in visiting order.
func (t *Trip) Waypoints() []Waypoint {
	return t.waypoints
}

// OneWay returns the one-way payload, nil for other kinds.
func (t *Trip) OneWay() *OneWayDetails {
	return t.oneWay
}

// Round returns the round-trip payload, nil for other kinds.
func (t *Trip) Round() *RoundDetails {
	return t.round
}

// Tour returns the tour payload, nil for other kinds.
func (t *Trip) Tour() *TourDetails {
	return t.tour
}

// Parcel returns the parcel payload, nil for other kinds.
func (t *Trip) Parcel() *ParcelDetails {
	return t.parcel
}

// Accept assigns the trip to a driver and moves it to Pending.
//
// Business rules:
//   - The trip must be Available
//   - The driver id must be positive; the vehicle is optional
//
// The storage layer additionally guards this transition with a conditional
// update so two concurrent accepts cannot both succeed.
//
// Returns:
//   - nil on successful acceptance
//   - error if the status transition is not allowed
func (t *Trip) Accept(driverID int64, vehicleID *int64) error {
	if driverID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("driverId",
			fmt.Errorf("%d is not a valid driver id", driverID))
	}

	newStatus, err := t.status.Accept()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.driverID = &driverID
	t.vehicleID = vehicleID
	return nil
}

// Release returns a Pending trip to the Available pool, clearing the driver
// and vehicle references.
func (t *Trip) Release() error {
	newStatus, err := t.status.Release()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.driverID = nil
	t.vehicleID = nil
	return nil
}

// Start moves the trip to InProgress and records the departure time.
// Starting an already started trip is a no-op that keeps the original
// departure time.
func (t *Trip) Start(at time.Time) error {
	wasInProgress := t.status == InProgress

	newStatus, err := t.status.Start()
	if err != nil {
		return err
	}

	t.status = newStatus
	if !wasInProgress {
		at := at.UTC()
		t.departureTime = &at
	}
	return nil
}

// Finish completes an InProgress trip and records the arrival time.
func (t *Trip) Finish(at time.Time) error {
	newStatus, err := t.status.Finish()
	if err != nil {
		return err
	}

	t.status = newStatus
	at = at.UTC()
	t.arrivalTime = &at
	return nil
}

// Cancel abandons the trip from any non-terminal status. Driver and vehicle
// references are kept for the audit trail.
func (t *Trip) Cancel() error {
	newStatus, err := t.status.Cancel()
	if err != nil {
		return err
	}

	t.status = newStatus
	return nil
}

// ApplyRoute replaces the waypoint list with a planner-ordered permutation of
// the same addresses. The replacement must have the same length.
func (t *Trip) ApplyRoute(ordered []Waypoint) error {
	if len(ordered) != len(t.waypoints) {
		return errs.NewValueIsInvalidErrorWithCause("waypoints",
			fmt.Errorf("route has %d waypoints, trip has %d", len(ordered), len(t.waypoints)))
	}

	t.waypoints = ordered
	return nil
}
