package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetAvailableTripsQueryHandler retrieves the open offer pool from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetAvailableTripsQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableTripsQueryHandler creates a handler for offer pool queries.
// Requires a GORM database connection for query execution.
func NewGetAvailableTripsQueryHandler(db *gorm.DB) GetAvailableTripsQueryHandler {
	return GetAvailableTripsQueryHandler{db: db}
}

// Handle executes the query to retrieve all available trips with their stops.
// Returns offers oldest first so long-waiting requests surface first.
func (h GetAvailableTripsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableTripsQuery,
) ([]GetAvailableTripsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	trips := make([]GetAvailableTripsQueryResponse, 0)
	index := make(map[int64]int)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			t.id,
			t.kind,
			t.custom_kind,
			t.price,
			t.notes,
			t.passenger_count,
			t.created_at
		FROM trips t
		WHERE t.status = 'Disponible'
		ORDER BY t.created_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var trip GetAvailableTripsQueryResponse

		err = rows.Scan(
			&trip.ID,
			&trip.Kind,
			&trip.CustomKind,
			&trip.Price,
			&trip.Notes,
			&trip.PassengerCount,
			&trip.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		trip.Addresses = make([]TripAddressResponse, 0)
		index[trip.ID] = len(trips)
		trips = append(trips, trip)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(trips) == 0 {
		return trips, nil
	}

	addressRows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			a.trip_id,
			a.address_text,
			a.role,
			a.stop_order
		FROM trip_addresses a
		JOIN trips t ON t.id = a.trip_id
		WHERE t.status = 'Disponible'
		ORDER BY a.trip_id, a.stop_order
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer addressRows.Close()

	for addressRows.Next() {
		var tripID int64
		var address TripAddressResponse

		err = addressRows.Scan(
			&tripID,
			&address.AddressText,
			&address.Role,
			&address.Order,
		)
		if err != nil {
			return nil, err
		}

		if i, ok := index[tripID]; ok {
			trips[i].Addresses = append(trips[i].Addresses, address)
		}
	}

	if err = addressRows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}
