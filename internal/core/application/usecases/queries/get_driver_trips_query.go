package queries

import (
	"errors"
	"time"

	"tripdesk/internal/pkg/guard"
)

var (
	ErrGetDriverTripsQueryIsNotConstructed = errors.New(
		"GetDriverTripsQuery must be created via NewGetDriverTripsQuery constructor",
	)
	ErrQueryDriverIDIsRequired = errors.New("driver id must be greater than 0")
)

// GetDriverTripsQuery retrieves a driver's workload: the trips they are
// currently committed to and the ones they already closed out.
type GetDriverTripsQuery struct { //nolint:recvcheck //using for validation
	driverID int64

	guard guard.ConstructorGuard
}

// NewGetDriverTripsQuery creates a query for one driver's trips.
func NewGetDriverTripsQuery(driverID int64) (GetDriverTripsQuery, error) {
	query := GetDriverTripsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setDriverID(driverID); err != nil {
		return GetDriverTripsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDriverTripsQueryIsNotConstructed if validation fails.
func (q GetDriverTripsQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverTripsQueryIsNotConstructed)
}

// DriverID returns the driver whose trips are requested.
func (q GetDriverTripsQuery) DriverID() int64 {
	return q.driverID
}

func (q *GetDriverTripsQuery) setDriverID(driverID int64) error {
	if driverID <= 0 {
		return ErrQueryDriverIDIsRequired
	}

	q.driverID = driverID
	return nil
}

// DriverTripResponse represents one of a driver's trips in the read model.
type DriverTripResponse struct {
	ID            int64
	Kind          string
	CustomKind    string
	Status        string
	Price         *float64
	DepartureTime *time.Time
	ArrivalTime   *time.Time
	CreatedAt     time.Time
}

// GetDriverTripsQueryResponse splits a driver's trips into active work and
// closed history.
type GetDriverTripsQueryResponse struct {
	// Active holds trips in the Pendiente or En progreso status, newest first.
	Active []DriverTripResponse

	// History holds trips in the Finalizado or Cancelado status, newest first.
	History []DriverTripResponse
}
