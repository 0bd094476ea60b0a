// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"tripdesk/internal/pkg/guard"
)

var ErrGetAvailableTripsQueryIsNotConstructed = errors.New(
	"GetAvailableTripsQuery must be created via NewGetAvailableTripsQuery constructor",
)

// GetAvailableTripsQuery retrieves the trips currently in the offer pool.
// Drivers browse this list to pick up work; the offer job broadcasts it.
//
// Example:
//
//	query := NewGetAvailableTripsQuery()
//	handler := NewGetAvailableTripsQueryHandler(db)
//
//	trips, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve offers: %w", err)
//	}
//
//	for _, offer := range trips {
//	    fmt.Printf("Trip %d (%s) with %d stops\n", offer.ID, offer.Kind, len(offer.Addresses))
//	}
type GetAvailableTripsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableTripsQuery creates a query to retrieve all available trips.
// This is a parameterless query; results come back oldest first.
func NewGetAvailableTripsQuery() GetAvailableTripsQuery {
	return GetAvailableTripsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAvailableTripsQueryIsNotConstructed if validation fails.
func (q GetAvailableTripsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableTripsQueryIsNotConstructed)
}

// TripAddressResponse is one stop of a trip in the read model.
type TripAddressResponse struct {
	AddressText string
	Role        string
	Order       int
}

// GetAvailableTripsQueryResponse represents one open offer in the read model.
type GetAvailableTripsQueryResponse struct {
	ID             int64
	Kind           string
	CustomKind     string
	Price          *float64
	Notes          string
	PassengerCount int
	CreatedAt      time.Time
	Addresses      []TripAddressResponse
}
