package commands

import (
	"context"

	"tripdesk/internal/core/domain/model/trip"
)

// CreateTripCommandHandler persists new trips of every kind.
// Builds the aggregate through the kind-specific constructor so each variant's
// rules are enforced before anything touches storage.
//
// Example:
//
//	handler := NewCreateTripCommandHandler(uowFactory)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create trip: %w", err)
//	}
//	fmt.Printf("Trip %d created in status %s", created.ID(), created.Status())
type CreateTripCommandHandler struct {
	uowFactory TripUoWFactory
}

// NewCreateTripCommandHandler creates a handler for trip creation operations.
// Requires a TripUoWFactory for transactional persistence.
func NewCreateTripCommandHandler(uowFactory TripUoWFactory) CreateTripCommandHandler {
	return CreateTripCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the trip creation command.
// Dispatches on the trip kind, persists the aggregate and returns it with its
// storage-assigned id.
func (h CreateTripCommandHandler) Handle(
	ctx context.Context,
	command CreateTripCommand,
) (*trip.Trip, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := buildTrip(command)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.TripRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}

func buildTrip(command CreateTripCommand) (*trip.Trip, error) {
	p := command.Params()

	params := trip.NewTripParams{
		TravelerID:     p.TravelerID,
		Waypoints:      command.Waypoints(),
		PassengerCount: p.PassengerCount,
		Price:          p.Price,
		Notes:          p.Notes,
		DepartureTime:  p.DepartureTime,
		ArrivalTime:    p.ArrivalTime,
		DriverID:       p.DriverID,
		VehicleID:      p.VehicleID,
	}

	if command.Kind() == trip.KindParcel {
		return trip.NewParcelTrip(params, trip.ParcelDetails{
			Title:         p.Title,
			Description:   p.Description,
			WeightKg:      p.WeightKg,
			Dimensions:    p.Dimensions,
			PickupIndex:   p.PickupIndex,
			DeliveryIndex: p.DeliveryIndex,
		})
	}

	switch command.CustomKind() {
	case trip.CustomKindOneWay:
		return trip.NewOneWayTrip(params, trip.OneWayDetails{
			AllowSharedRide: p.AllowSharedRide,
			IsReserved:      p.IsReserved,
		})
	case trip.CustomKindRound:
		return trip.NewRoundTrip(params, trip.RoundDetails{
			RequiresWait:    p.RequiresWait,
			WaitTimeMinutes: p.WaitTimeMinutes,
		})
	case trip.CustomKindTour:
		return trip.NewTourTrip(params, trip.TourDetails{
			IncludesDriverExpenses: p.IncludesDriverExpenses,
			RentalDays:             p.RentalDays,
			DailyRate:              p.DailyRate,
		})
	default:
		return trip.NewNormalTrip(params)
	}
}
