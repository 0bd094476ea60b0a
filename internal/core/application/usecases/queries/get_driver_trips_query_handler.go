package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetDriverTripsQueryHandler retrieves one driver's active and past trips.
type GetDriverTripsQueryHandler struct {
	db *gorm.DB
}

// NewGetDriverTripsQueryHandler creates a handler for driver workload queries.
func NewGetDriverTripsQueryHandler(db *gorm.DB) GetDriverTripsQueryHandler {
	return GetDriverTripsQueryHandler{db: db}
}

// Handle executes the query, splitting the driver's trips into active work
// and closed history. Both lists come back newest first.
func (h GetDriverTripsQueryHandler) Handle(
	ctx context.Context,
	query GetDriverTripsQuery,
) (GetDriverTripsQueryResponse, error) {
	var response GetDriverTripsQueryResponse

	if err := query.Validate(); err != nil {
		return response, err
	}

	response.Active = make([]DriverTripResponse, 0)
	response.History = make([]DriverTripResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			t.id,
			t.kind,
			t.custom_kind,
			t.status,
			t.price,
			t.departure_time,
			t.arrival_time,
			t.created_at
		FROM trips t
		WHERE t.driver_id = ?
		ORDER BY t.created_at DESC
	`, query.DriverID()).Rows()
	if err != nil {
		return response, err
	}
	defer rows.Close()

	for rows.Next() {
		var trip DriverTripResponse

		err = rows.Scan(
			&trip.ID,
			&trip.Kind,
			&trip.CustomKind,
			&trip.Status,
			&trip.Price,
			&trip.DepartureTime,
			&trip.ArrivalTime,
			&trip.CreatedAt,
		)
		if err != nil {
			return response, err
		}

		switch trip.Status {
		case "Pendiente", "En progreso":
			response.Active = append(response.Active, trip)
		default:
			response.History = append(response.History, trip)
		}
	}

	if err = rows.Err(); err != nil {
		return response, err
	}

	return response, nil
}
