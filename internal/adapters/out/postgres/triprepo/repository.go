package triprepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/pkg/errs"
)

// GormTripRepository implements TripRepository using GORM.
type GormTripRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

// NewGormTripRepository creates a new GORM trip repository.
func NewGormTripRepository(db *gorm.DB, tracker aggregateTracker) *GormTripRepository {
	return &GormTripRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new trip with its addresses and assigns the generated id back
// to the aggregate.
func (r *GormTripRepository) Add(ctx context.Context, aggregate *trip.Trip) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err = aggregate.AssignID(dto.ID); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing trip. The address list is replaced wholesale
// because route planning rewrites stop orders and distances.
func (r *GormTripRepository) Update(ctx context.Context, aggregate *trip.Trip) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&TripDTO{}).
		Where("id = ?", dto.ID).
		Updates(mutableColumns(dto))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err = r.replaceAddresses(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateWhereStatus saves an existing trip only if the stored row still
// carries the expected status. The WHERE clause makes the write atomic at the
// database: of any number of concurrent transitions out of the expected
// status exactly one succeeds and the rest get errs.ErrAlreadyHandled.
func (r *GormTripRepository) UpdateWhereStatus(
	ctx context.Context,
	aggregate *trip.Trip,
	expected trip.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := expected.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&TripDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Updates(mutableColumns(dto))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("trip %d is not %s anymore: %w", dto.ID, expected, errs.ErrAlreadyHandled)
	}

	if err = r.replaceAddresses(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a trip by ID with its addresses in visiting order.
func (r *GormTripRepository) Get(ctx context.Context, id int64) (*trip.Trip, error) {
	var dto TripDTO
	err := r.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("stop_order")
		}).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trip", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves the offer pool, oldest first.
func (r *GormTripRepository) GetAllAvailable(ctx context.Context) ([]*trip.Trip, error) {
	var dtos []TripDTO
	err := r.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("stop_order")
		}).
		Where("status = ?", trip.Available.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetByDriver retrieves the trips assigned to a driver, newest first.
func (r *GormTripRepository) GetByDriver(ctx context.Context, driverID int64) ([]*trip.Trip, error) {
	var dtos []TripDTO
	err := r.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("stop_order")
		}).
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []TripDTO) ([]*trip.Trip, error) {
	trips := make([]*trip.Trip, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		trips = append(trips, aggregate)
	}
	return trips, nil
}

// mutableColumns lists the columns an update may change, as a map so cleared
// pointers (a released trip's driver_id) overwrite instead of being skipped
// as zero values.
func mutableColumns(dto TripDTO) map[string]any {
	return map[string]any{
		"status":          dto.Status,
		"driver_id":       dto.DriverID,
		"vehicle_id":      dto.VehicleID,
		"price":           dto.Price,
		"notes":           dto.Notes,
		"passenger_count": dto.PassengerCount,
		"departure_time":  dto.DepartureTime,
		"arrival_time":    dto.ArrivalTime,
		"details":         dto.Details,
	}
}

func (r *GormTripRepository) replaceAddresses(ctx context.Context, dto TripDTO) error {
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", dto.ID).
		Delete(&TripAddressDTO{}).Error
	if err != nil {
		return err
	}

	if len(dto.Addresses) == 0 {
		return nil
	}

	addresses := make([]TripAddressDTO, 0, len(dto.Addresses))
	for _, address := range dto.Addresses {
		address.ID = 0
		address.TripID = dto.ID
		addresses = append(addresses, address)
	}

	return r.db.WithContext(ctx).Create(&addresses).Error
}
