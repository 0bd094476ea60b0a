// Package driverrepo provides data transfer objects and mapping functions for
// driver persistence, including the vehicle, the verification flag and the
// last reported position.
package driverrepo

import (
	"time"

	"tripdesk/internal/core/domain/model/driver"
	"tripdesk/internal/core/domain/model/kernel"
)

// DriverDTO represents the database structure for persisting driver aggregates.
// The duty column holds the Spanish operator-facing label. AdminID links the
// driver to the operator responsible for their paperwork.
type DriverDTO struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	FullName          string `gorm:"type:varchar(255);not null"`
	LicenseNumber     string `gorm:"type:varchar(64);not null"`
	Phone             string `gorm:"type:varchar(32)"`
	IsVerified        bool   `gorm:"not null;index"`
	Duty              string `gorm:"type:varchar(16);not null;index"`
	Rating            float64
	TotalTrips        int
	AdminID           *int64      `gorm:"index"`
	Vehicle           *VehicleDTO `gorm:"foreignKey:DriverID"`
	Latitude          *float64
	Longitude         *float64
	PositionUpdatedAt *time.Time
}

// TableName specifies the database table name for driver entities.
// Overrides GORM's default naming convention to use "drivers".
func (DriverDTO) TableName() string {
	return "drivers"
}

// VehicleDTO represents the database structure for a driver's vehicle.
type VehicleDTO struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	DriverID int64  `gorm:"not null;index"`
	Plate    string `gorm:"type:varchar(16);not null"`
	Make     string `gorm:"type:varchar(64)"`
	Model    string `gorm:"type:varchar(64)"`
	Year     int
	Color    string `gorm:"type:varchar(32)"`
	Seats    int
}

// TableName specifies the database table name for vehicle entities.
// Overrides GORM's default naming convention to use "vehicles".
func (VehicleDTO) TableName() string {
	return "vehicles"
}

// fromDomain converts a driver domain aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	dto := DriverDTO{
		ID:                aggregate.ID(),
		FullName:          aggregate.FullName(),
		LicenseNumber:     aggregate.LicenseNumber(),
		Phone:             aggregate.Phone(),
		IsVerified:        aggregate.IsVerified(),
		Duty:              aggregate.Duty().String(),
		Rating:            aggregate.Rating(),
		TotalTrips:        aggregate.TotalTrips(),
		PositionUpdatedAt: aggregate.PositionUpdatedAt(),
	}

	if position := aggregate.Position(); position != nil {
		latitude := position.Latitude()
		longitude := position.Longitude()
		dto.Latitude = &latitude
		dto.Longitude = &longitude
	}

	if vehicle := aggregate.Vehicle(); vehicle != nil {
		dto.Vehicle = &VehicleDTO{
			ID:       vehicle.ID,
			DriverID: aggregate.ID(),
			Plate:    vehicle.Plate,
			Make:     vehicle.Make,
			Model:    vehicle.Model,
			Year:     vehicle.Year,
			Color:    vehicle.Color,
			Seats:    vehicle.Seats,
		}
	}

	return dto
}

// toDomain converts a database DTO to a driver domain aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	duty, err := driver.DutyStatusFromString(dto.Duty)
	if err != nil {
		return nil, err
	}

	var vehicle *driver.Vehicle
	if dto.Vehicle != nil {
		vehicle = &driver.Vehicle{
			ID:    dto.Vehicle.ID,
			Plate: dto.Vehicle.Plate,
			Make:  dto.Vehicle.Make,
			Model: dto.Vehicle.Model,
			Year:  dto.Vehicle.Year,
			Color: dto.Vehicle.Color,
			Seats: dto.Vehicle.Seats,
		}
	}

	var position *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		position = &point
	}

	return driver.RestoreDriver(
		dto.ID,
		dto.FullName,
		dto.LicenseNumber,
		dto.Phone,
		dto.IsVerified,
		duty,
		dto.Rating,
		dto.TotalTrips,
		vehicle,
		position,
		dto.PositionUpdatedAt,
	)
}
