package accountrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"tripdesk/internal/core/domain/model/account"
	"tripdesk/internal/pkg/errs"
)

// GormAccountRepository implements AccountRepository using GORM.
type GormAccountRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

// NewGormAccountRepository creates a new GORM account repository.
func NewGormAccountRepository(db *gorm.DB, tracker aggregateTracker) *GormAccountRepository {
	return &GormAccountRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddUser saves a new user and assigns the generated id.
func (r *GormAccountRepository) AddUser(ctx context.Context, user *account.User) error {
	dto := userFromDomain(user)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	user.ID = dto.ID
	r.tracker.TrackAggregate(user.ID, user)
	return nil
}

// AddTraveler saves the traveler profile for an existing user.
func (r *GormAccountRepository) AddTraveler(ctx context.Context, traveler *account.Traveler) error {
	dto := travelerFromDomain(traveler)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(traveler.ID, traveler)
	return nil
}

// GetUserByEmail retrieves a user by normalized email.
func (r *GormAccountRepository) GetUserByEmail(ctx context.Context, email string) (*account.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", email)
		}
		return nil, err
	}

	return userToDomain(dto), nil
}

// GetUserByID retrieves a user by id.
func (r *GormAccountRepository) GetUserByID(ctx context.Context, id int64) (*account.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id)
		}
		return nil, err
	}

	return userToDomain(dto), nil
}

// GetTraveler retrieves a traveler profile by user id.
func (r *GormAccountRepository) GetTraveler(ctx context.Context, id int64) (*account.Traveler, error) {
	var dto TravelerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("traveler", id)
		}
		return nil, err
	}

	return travelerToDomain(dto), nil
}
