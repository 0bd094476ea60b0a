package trip

import (
	"fmt"

	"tripdesk/internal/pkg/errs"
)

// Role classifies what happens at a waypoint.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RolePickup is where a passenger or parcel is collected.
	RolePickup

	// RoleDelivery is where a passenger or parcel is dropped off.
	RoleDelivery

	// RoleWaypoint is an intermediate stop.
	RoleWaypoint
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RolePickup:   "pickup",
		RoleDelivery: "delivery",
		RoleWaypoint: "waypoint",
	}
}

// RoleFromString parses a persisted role label.
func RoleFromString(s string) (Role, error) {
	for r, str := range getRoleStrings() {
		if str == s {
			return r, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role is invalid",
		fmt.Errorf("%q is not a valid address role", s))
}

// Validate checks if the Role value is valid.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid",
			fmt.Errorf("%d is not a valid address role", r))
	}
	return nil
}

// String implements fmt.Stringer.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Waypoint is an address attached to a trip. Coordinates are optional:
// addresses captured as free text during a conversation may have no GPS fix,
// and a GPS share may arrive without a longitude. Order is the visiting
// position within the trip; DistanceFromStartKm is filled when the route is
// planned at trip start.
type Waypoint struct {
	ID                  int64
	AddressText         string
	Latitude            *float64
	Longitude           *float64
	Role                Role
	Order               int
	DistanceFromStartKm *float64
}

// NewWaypoint creates a validated waypoint. Address text is required; the
// coordinate pointers may be nil independently of each other.
func NewWaypoint(addressText string, latitude, longitude *float64, role Role, order int) (Waypoint, error) {
	if addressText == "" {
		return Waypoint{}, errs.NewValueIsRequiredError("addressText")
	}
	if err := role.Validate(); err != nil {
		return Waypoint{}, err
	}
	if latitude != nil && (*latitude < -90 || *latitude > 90) {
		return Waypoint{}, errs.NewValueIsOutOfRangeError("latitude", *latitude, -90.0, 90.0)
	}
	if longitude != nil && (*longitude < -180 || *longitude > 180) {
		return Waypoint{}, errs.NewValueIsOutOfRangeError("longitude", *longitude, -180.0, 180.0)
	}

	return Waypoint{
		AddressText: addressText,
		Latitude:    latitude,
		Longitude:   longitude,
		Role:        role,
		Order:       order,
	}, nil
}

// HasLatitude reports whether the waypoint carries a latitude fix.
func (w Waypoint) HasLatitude() bool {
	return w.Latitude != nil
}
