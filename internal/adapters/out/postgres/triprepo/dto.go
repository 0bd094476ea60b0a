// Package triprepo provides data transfer objects and mapping functions for trip persistence.
// This package implements the repository pattern for the trip domain aggregate, handling
// the conversion between domain entities and database representations.
package triprepo

import (
	"encoding/json"
	"time"

	"tripdesk/internal/core/domain/model/trip"
)

// TripDTO represents the database structure for persisting trip aggregates.
// The status column holds the Spanish operator-facing label so the conditional
// accept update can compare it directly in SQL. Kind-specific payloads live in
// a jsonb column instead of four sparse column sets.
type TripDTO struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Kind           string `gorm:"type:varchar(16);not null;index"`
	CustomKind     string `gorm:"type:varchar(16)"`
	Status         string `gorm:"type:varchar(16);not null;index"`
	TravelerID     *int64 `gorm:"index"`
	DriverID       *int64 `gorm:"index"`
	VehicleID      *int64
	Price          *float64
	Notes          string
	PassengerCount int
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
	CreatedAt      time.Time
	Details        []byte           `gorm:"type:jsonb"`
	Addresses      []TripAddressDTO `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for trip entities.
// Overrides GORM's default naming convention to use "trips".
func (TripDTO) TableName() string {
	return "trips"
}

// TripAddressDTO represents one stop of a trip. StopOrder is the visiting
// position; round trips number the return leg starting above 100.
type TripAddressDTO struct {
	ID                  int64  `gorm:"primaryKey;autoIncrement"`
	TripID              int64  `gorm:"not null;index"`
	AddressText         string `gorm:"type:varchar(512);not null"`
	Latitude            *float64
	Longitude           *float64
	Role                string `gorm:"type:varchar(16);not null"`
	StopOrder           int    `gorm:"not null"`
	DistanceFromStartKm *float64
}

// TableName specifies the database table name for trip address entities.
// Overrides GORM's default naming convention to use "trip_addresses".
func (TripAddressDTO) TableName() string {
	return "trip_addresses"
}

// detailsDTO is the jsonb payload holding the kind-specific trip details.
// At most one field is non-nil, matching the aggregate's tagged variant.
type detailsDTO struct {
	OneWay *oneWayDetailsDTO `json:"one_way,omitempty"`
	Round  *roundDetailsDTO  `json:"round,omitempty"`
	Tour   *tourDetailsDTO   `json:"tour,omitempty"`
	Parcel *parcelDetailsDTO `json:"package,omitempty"`
}

type oneWayDetailsDTO struct {
	AllowSharedRide bool `json:"allow_shared_ride"`
	IsReserved      bool `json:"is_reserved"`
}

type roundDetailsDTO struct {
	RequiresWait    bool `json:"requires_wait"`
	WaitTimeMinutes *int `json:"wait_time_minutes,omitempty"`
}

type tourDetailsDTO struct {
	IncludesDriverExpenses bool     `json:"includes_driver_expenses"`
	RentalDays             int      `json:"rental_days"`
	DailyRate              *float64 `json:"daily_rate,omitempty"`
}

type parcelDetailsDTO struct {
	Title         string   `json:"title"`
	Description   string   `json:"package_description"`
	WeightKg      *float64 `json:"weight,omitempty"`
	Dimensions    string   `json:"dimensions,omitempty"`
	PickupIndex   int      `json:"pickup_index"`
	DeliveryIndex int      `json:"delivery_index"`
}

// fromDomain converts a trip domain aggregate to its database representation.
func fromDomain(aggregate *trip.Trip) (TripDTO, error) {
	details := detailsDTO{}
	if d := aggregate.OneWay(); d != nil {
		details.OneWay = &oneWayDetailsDTO{
			AllowSharedRide: d.AllowSharedRide,
			IsReserved:      d.IsReserved,
		}
	}
	if d := aggregate.Round(); d != nil {
		details.Round = &roundDetailsDTO{
			RequiresWait:    d.RequiresWait,
			WaitTimeMinutes: d.WaitTimeMinutes,
		}
	}
	if d := aggregate.Tour(); d != nil {
		details.Tour = &tourDetailsDTO{
			IncludesDriverExpenses: d.IncludesDriverExpenses,
			RentalDays:             d.RentalDays,
			DailyRate:              d.DailyRate,
		}
	}
	if d := aggregate.Parcel(); d != nil {
		details.Parcel = &parcelDetailsDTO{
			Title:         d.Title,
			Description:   d.Description,
			WeightKg:      d.WeightKg,
			Dimensions:    d.Dimensions,
			PickupIndex:   d.PickupIndex,
			DeliveryIndex: d.DeliveryIndex,
		}
	}

	rawDetails, err := json.Marshal(details)
	if err != nil {
		return TripDTO{}, err
	}

	addresses := make([]TripAddressDTO, 0, len(aggregate.Waypoints()))
	for _, waypoint := range aggregate.Waypoints() {
		addresses = append(addresses, TripAddressDTO{
			ID:                  waypoint.ID,
			TripID:              aggregate.ID(),
			AddressText:         waypoint.AddressText,
			Latitude:            waypoint.Latitude,
			Longitude:           waypoint.Longitude,
			Role:                waypoint.Role.String(),
			StopOrder:           waypoint.Order,
			DistanceFromStartKm: waypoint.DistanceFromStartKm,
		})
	}

	return TripDTO{
		ID:             aggregate.ID(),
		Kind:           aggregate.Kind().String(),
		CustomKind:     aggregate.CustomKind().String(),
		Status:         aggregate.Status().String(),
		TravelerID:     aggregate.Traveler(),
		DriverID:       aggregate.Driver(),
		VehicleID:      aggregate.Vehicle(),
		Price:          aggregate.Price(),
		Notes:          aggregate.Notes(),
		PassengerCount: aggregate.PassengerCount(),
		DepartureTime:  aggregate.DepartureTime(),
		ArrivalTime:    aggregate.ArrivalTime(),
		CreatedAt:      aggregate.CreatedAt(),
		Details:        rawDetails,
		Addresses:      addresses,
	}, nil
}

// toDomain converts a database DTO to a trip domain aggregate.
// Reconstructs the complete aggregate using RestoreTrip so row-level
// inconsistencies are rejected instead of silently loaded.
func toDomain(dto TripDTO) (*trip.Trip, error) {
	kind, err := trip.KindFromString(dto.Kind)
	if err != nil {
		return nil, err
	}

	customKind, err := trip.CustomKindFromString(dto.CustomKind)
	if err != nil {
		return nil, err
	}

	status, err := trip.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	waypoints := make([]trip.Waypoint, 0, len(dto.Addresses))
	for _, address := range dto.Addresses {
		role, roleErr := trip.RoleFromString(address.Role)
		if roleErr != nil {
			return nil, roleErr
		}

		waypoints = append(waypoints, trip.Waypoint{
			ID:                  address.ID,
			AddressText:         address.AddressText,
			Latitude:            address.Latitude,
			Longitude:           address.Longitude,
			Role:                role,
			Order:               address.StopOrder,
			DistanceFromStartKm: address.DistanceFromStartKm,
		})
	}

	var details detailsDTO
	if len(dto.Details) > 0 {
		if err = json.Unmarshal(dto.Details, &details); err != nil {
			return nil, err
		}
	}

	var oneWay *trip.OneWayDetails
	if d := details.OneWay; d != nil {
		oneWay = &trip.OneWayDetails{
			AllowSharedRide: d.AllowSharedRide,
			IsReserved:      d.IsReserved,
		}
	}

	var round *trip.RoundDetails
	if d := details.Round; d != nil {
		round = &trip.RoundDetails{
			RequiresWait:    d.RequiresWait,
			WaitTimeMinutes: d.WaitTimeMinutes,
		}
	}

	var tour *trip.TourDetails
	if d := details.Tour; d != nil {
		tour = &trip.TourDetails{
			IncludesDriverExpenses: d.IncludesDriverExpenses,
			RentalDays:             d.RentalDays,
			DailyRate:              d.DailyRate,
		}
	}

	var parcel *trip.ParcelDetails
	if d := details.Parcel; d != nil {
		parcel = &trip.ParcelDetails{
			Title:         d.Title,
			Description:   d.Description,
			WeightKg:      d.WeightKg,
			Dimensions:    d.Dimensions,
			PickupIndex:   d.PickupIndex,
			DeliveryIndex: d.DeliveryIndex,
		}
	}

	return trip.RestoreTrip(
		dto.ID,
		kind,
		customKind,
		status,
		dto.TravelerID,
		dto.DriverID,
		dto.VehicleID,
		dto.Price,
		dto.Notes,
		dto.PassengerCount,
		dto.DepartureTime,
		dto.ArrivalTime,
		dto.CreatedAt,
		waypoints,
		oneWay,
		round,
		tour,
		parcel,
	)
}
