package driverrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tripdesk/internal/core/domain/model/driver"
	"tripdesk/internal/pkg/errs"
)

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

// NewGormDriverRepository creates a new GORM driver repository.
func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new driver and assigns the generated id back to the aggregate.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	aggregate.AssignID(dto.ID)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing driver, vehicle included.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Use Session with FullSaveAssociations to properly update the vehicle row.
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a driver by ID, vehicle included.
func (r *GormDriverRepository) Get(ctx context.Context, id int64) (*driver.Driver, error) {
	var dto DriverDTO
	if err := r.db.WithContext(ctx).Preload("Vehicle").First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllOfferable retrieves the verified drivers whose duty status accepts
// new trip offers.
func (r *GormDriverRepository) GetAllOfferable(ctx context.Context) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("is_verified = ? AND duty = ?", true, driver.DutyAvailable.String()).
		Order("full_name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		drivers = append(drivers, aggregate)
	}

	return drivers, nil
}

// IsAssignedToAdmin reports whether the driver belongs to the admin's portfolio.
func (r *GormDriverRepository) IsAssignedToAdmin(
	ctx context.Context,
	adminID, driverID int64,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ? AND admin_id = ?", driverID, adminID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
