package commands

import (
	"errors"
	"time"

	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/pkg/guard"
)

var (
	ErrCreateTripCommandIsNotConstructed = errors.New(
		"CreateTripCommand must be created via NewCreateTripCommand constructor",
	)
	ErrAddressesAreRequired = errors.New("at least two addresses are required")
	ErrCustomKindIsRequired = errors.New("custom trips require a variant")
)

// AddressInput is a raw stop as submitted by the API or a conversation flow.
// Latitude and Longitude may each be nil when the channel only supplied a
// textual address or a partial coordinate.
type AddressInput struct {
	AddressText string
	Latitude    *float64
	Longitude   *float64
	Role        string
	Order       int
}

// CreateTripParams carries everything needed to create a trip of any kind.
// Kind-specific fields are ignored for kinds that do not use them.
type CreateTripParams struct {
	Kind       string
	CustomKind string

	TravelerID     *int64
	DriverID       *int64
	VehicleID      *int64
	PassengerCount int
	Price          *float64
	Notes          string
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
	Addresses      []AddressInput

	// one_way
	AllowSharedRide bool
	IsReserved      bool

	// round
	RequiresWait    bool
	WaitTimeMinutes *int

	// tour
	IncludesDriverExpenses bool
	RentalDays             int
	DailyRate              *float64

	// package
	Title         string
	Description   string
	WeightKg      *float64
	Dimensions    string
	PickupIndex   int
	DeliveryIndex int
}

// CreateTripCommand represents a request to register a new trip.
// Validates the kind, the custom kind and every address eagerly so a handler
// only ever sees well-formed input.
//
// Example:
//
//	cmd, err := NewCreateTripCommand(CreateTripParams{
//	    Kind:       "custom",
//	    CustomKind: "one_way",
//	    Addresses: []AddressInput{
//	        {AddressText: "Av. Libertador 100", Role: "pickup", Order: 1},
//	        {AddressText: "Calle 9 esq. 5", Role: "delivery", Order: 2},
//	    },
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid trip data: %w", err)
//	}
type CreateTripCommand struct { //nolint:recvcheck //using for validation
	kind       trip.Kind
	customKind trip.CustomKind
	waypoints  []trip.Waypoint
	params     CreateTripParams

	guard guard.ConstructorGuard
}

// NewCreateTripCommand creates a command to register a new trip of any kind.
// Returns an error when the kind is unknown or any address fails validation.
func NewCreateTripCommand(params CreateTripParams) (CreateTripCommand, error) {
	tripCommand := CreateTripCommand{
		params: params,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		tripCommand.setKind(params.Kind, params.CustomKind),
		tripCommand.setAddresses(params.Addresses),
	); err != nil {
		return CreateTripCommand{}, err
	}

	return tripCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateTripCommandIsNotConstructed if validation fails.
func (c CreateTripCommand) Validate() error {
	return c.guard.Validate(ErrCreateTripCommandIsNotConstructed)
}

// Kind returns the validated trip kind.
func (c CreateTripCommand) Kind() trip.Kind {
	return c.kind
}

// CustomKind returns the validated custom trip variant.
func (c CreateTripCommand) CustomKind() trip.CustomKind {
	return c.customKind
}

// Waypoints returns the validated stop list.
func (c CreateTripCommand) Waypoints() []trip.Waypoint {
	return c.waypoints
}

// Params returns the raw creation parameters.
func (c CreateTripCommand) Params() CreateTripParams {
	return c.params
}

func (c *CreateTripCommand) setKind(rawKind, rawCustomKind string) error {
	kind, err := trip.KindFromString(rawKind)
	if err != nil {
		return err
	}

	customKind := trip.CustomKindNone
	if kind == trip.KindCustom {
		customKind, err = trip.CustomKindFromString(rawCustomKind)
		if err != nil {
			return err
		}
		if customKind == trip.CustomKindNone {
			return ErrCustomKindIsRequired
		}
	}

	c.kind = kind
	c.customKind = customKind
	return nil
}

func (c *CreateTripCommand) setAddresses(addresses []AddressInput) error {
	if len(addresses) < 2 {
		return ErrAddressesAreRequired
	}

	waypoints := make([]trip.Waypoint, 0, len(addresses))
	for _, address := range addresses {
		role, err := trip.RoleFromString(address.Role)
		if err != nil {
			return err
		}

		waypoint, err := trip.NewWaypoint(
			address.AddressText,
			address.Latitude,
			address.Longitude,
			role,
			address.Order,
		)
		if err != nil {
			return err
		}

		waypoints = append(waypoints, waypoint)
	}

	c.waypoints = waypoints
	return nil
}
