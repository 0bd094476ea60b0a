package driver

import (
	"fmt"

	"tripdesk/internal/pkg/errs"
)

// DutyStatus is the driver's self-reported availability, orthogonal to the
// lifecycle of any particular trip.
type DutyStatus int

const (
	// DutyUnknown represents an invalid or undefined duty status.
	DutyUnknown DutyStatus = iota

	// DutyAvailable means the driver is free and can receive offers.
	DutyAvailable

	// DutyAssigned means the driver committed to a trip but has not started.
	DutyAssigned

	// DutyOnTrip means the driver is currently driving a trip.
	DutyOnTrip

	// DutyOffline means the driver is out of service or disconnected.
	DutyOffline

	// DutyBusy means the driver is occupied with another task.
	DutyBusy

	// DutySuspended means the driver was deactivated administratively.
	DutySuspended
)

func getDutyStatusStrings() map[DutyStatus]string {
	return map[DutyStatus]string{
		DutyAvailable: "disponible",
		DutyAssigned:  "asignado",
		DutyOnTrip:    "en_viaje",
		DutyOffline:   "desconectado",
		DutyBusy:      "ocupado",
		DutySuspended: "suspendido",
	}
}

// DutyStatusFromString parses a persisted duty label.
func DutyStatusFromString(s string) (DutyStatus, error) {
	for d, str := range getDutyStatusStrings() {
		if str == s {
			return d, nil
		}
	}
	return DutyUnknown, errs.NewValueIsInvalidErrorWithCause("dutyStatus is invalid",
		fmt.Errorf("%q is not a valid duty status", s))
}

// Validate checks if the DutyStatus value is valid.
func (d DutyStatus) Validate() error {
	if _, ok := getDutyStatusStrings()[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("dutyStatus is invalid",
			fmt.Errorf("%d is not a valid duty status", d))
	}
	return nil
}

// String implements fmt.Stringer.
func (d DutyStatus) String() string {
	if str, ok := getDutyStatusStrings()[d]; ok {
		return str
	}
	return "unknown"
}

// CanReceiveOffers reports whether a driver in this duty status should be
// shown new trip offers.
func (d DutyStatus) CanReceiveOffers() bool {
	return d == DutyAvailable
}
