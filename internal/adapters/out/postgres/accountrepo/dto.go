// Package accountrepo provides data transfer objects and mapping functions
// for user and traveler persistence.
package accountrepo

import (
	"time"

	"tripdesk/internal/core/domain/model/account"
)

// UserDTO represents the database structure for persisting login identities.
type UserDTO struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(16);not null;index"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// TableName specifies the database table name for user entities.
// Overrides GORM's default naming convention to use "users".
func (UserDTO) TableName() string {
	return "users"
}

// TravelerDTO represents the database structure for traveler profiles.
// The primary key is the owning user's id.
type TravelerDTO struct {
	ID         int64  `gorm:"primaryKey"`
	FullName   string `gorm:"type:varchar(255);not null"`
	DNI        string `gorm:"type:varchar(32);not null"`
	Phone      string `gorm:"type:varchar(32);not null;index"`
	TotalTrips int
}

// TableName specifies the database table name for traveler entities.
// Overrides GORM's default naming convention to use "travelers".
func (TravelerDTO) TableName() string {
	return "travelers"
}

func userFromDomain(user *account.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		LastLogin:    user.LastLogin,
	}
}

func userToDomain(dto UserDTO) *account.User {
	return &account.User{
		ID:           dto.ID,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		Role:         account.Role(dto.Role),
		IsActive:     dto.IsActive,
		CreatedAt:    dto.CreatedAt,
		LastLogin:    dto.LastLogin,
	}
}

func travelerFromDomain(traveler *account.Traveler) TravelerDTO {
	return TravelerDTO{
		ID:         traveler.ID,
		FullName:   traveler.FullName,
		DNI:        traveler.DNI,
		Phone:      traveler.Phone,
		TotalTrips: traveler.TotalTrips,
	}
}

func travelerToDomain(dto TravelerDTO) *account.Traveler {
	return &account.Traveler{
		ID:         dto.ID,
		FullName:   dto.FullName,
		DNI:        dto.DNI,
		Phone:      dto.Phone,
		TotalTrips: dto.TotalTrips,
	}
}
