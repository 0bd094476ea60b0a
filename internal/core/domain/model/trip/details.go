package trip

import (
	"fmt"

	"tripdesk/internal/pkg/errs"
)

// returnLegOrderBase separates outbound stops from return stops on a round
// trip: outbound addresses use order indexes below it, the return leg starts
// at returnLegOrderBase+1.
const returnLegOrderBase = 100

// OneWayDetails is the payload of a one-way custom trip.
type OneWayDetails struct {
	AllowSharedRide bool
	IsReserved      bool
}

func (d OneWayDetails) validate(waypoints []Waypoint) error {
	if n := countOutbound(waypoints); n != 2 {
		return errs.NewValueIsInvalidErrorWithCause("addresses",
			fmt.Errorf("one-way trip requires exactly 2 addresses, got %d", n))
	}
	if d.IsReserved && d.AllowSharedRide {
		return errs.NewValueIsInvalidErrorWithCause("allowSharedRide",
			fmt.Errorf("a reserved trip cannot allow shared riders"))
	}
	return nil
}

// RoundDetails is the payload of a round custom trip. Return-leg waypoints
// carry order indexes above returnLegOrderBase and do not count against the
// two-address rule.
type RoundDetails struct {
	RequiresWait    bool
	WaitTimeMinutes *int
}

func (d RoundDetails) validate(waypoints []Waypoint) error {
	if n := countOutbound(waypoints); n != 2 {
		return errs.NewValueIsInvalidErrorWithCause("addresses",
			fmt.Errorf("round trip requires exactly 2 outbound addresses, got %d", n))
	}
	if d.RequiresWait && (d.WaitTimeMinutes == nil || *d.WaitTimeMinutes <= 0) {
		return errs.NewValueIsInvalidErrorWithCause("waitTimeMinutes",
			fmt.Errorf("a trip that requires waiting needs a positive wait time"))
	}
	return nil
}

// TourDetails is the payload of a tour custom trip.
type TourDetails struct {
	IncludesDriverExpenses bool
	RentalDays             int
	DailyRate              *float64
}

func (d TourDetails) validate(waypoints []Waypoint) error {
	if n := len(waypoints); n < 2 {
		return errs.NewValueIsInvalidErrorWithCause("addresses",
			fmt.Errorf("tour trip requires at least 2 addresses, got %d", n))
	}
	if d.RentalDays < 1 {
		return errs.NewValueIsInvalidErrorWithCause("rentalDays",
			fmt.Errorf("%d is not a valid rental duration", d.RentalDays))
	}
	if d.DailyRate != nil && *d.DailyRate <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("dailyRate",
			fmt.Errorf("daily rate must be greater than 0"))
	}
	return nil
}

// TotalPrice returns rentalDays * dailyRate, or nil when no rate is set.
func (d TourDetails) TotalPrice() *float64 {
	if d.DailyRate == nil {
		return nil
	}
	total := *d.DailyRate * float64(d.RentalDays)
	return &total
}

// ParcelDetails is the payload of a package delivery trip. PickupIndex and
// DeliveryIndex reference positions in the trip's waypoint list.
type ParcelDetails struct {
	Title         string
	Description   string
	WeightKg      *float64
	Dimensions    string
	PickupIndex   int
	DeliveryIndex int
}

func (d ParcelDetails) validate(waypoints []Waypoint) error {
	if d.Description == "" {
		return errs.NewValueIsRequiredError("packageDescription")
	}
	if d.WeightKg != nil && *d.WeightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("weight must be greater than 0"))
	}
	if n := len(waypoints); n < 2 {
		return errs.NewValueIsInvalidErrorWithCause("addresses",
			fmt.Errorf("parcel trip requires pickup and delivery addresses, got %d", n))
	}
	if d.PickupIndex < 0 || d.PickupIndex >= len(waypoints) {
		return errs.NewValueIsOutOfRangeError("pickupIndex", d.PickupIndex, 0, len(waypoints)-1)
	}
	if d.DeliveryIndex < 0 || d.DeliveryIndex >= len(waypoints) {
		return errs.NewValueIsOutOfRangeError("deliveryIndex", d.DeliveryIndex, 0, len(waypoints)-1)
	}
	if d.PickupIndex == d.DeliveryIndex {
		return errs.NewValueIsInvalidErrorWithCause("deliveryIndex",
			fmt.Errorf("pickup and delivery cannot be the same address"))
	}
	return nil
}

func countOutbound(waypoints []Waypoint) int {
	n := 0
	for _, w := range waypoints {
		if w.Order <= returnLegOrderBase {
			n++
		}
	}
	return n
}
