package conversation

import (
	"fmt"
	"time"

	"tripdesk/internal/pkg/errs"
)

// MaxReturnDepth bounds the stack of sub-flow return addresses. Two levels of
// delegation occur in practice (a trip flow delegating to the location flow,
// which never delegates further); three leaves headroom without letting a
// dispatch bug grow the stack unboundedly.
const MaxReturnDepth = 3

// ReturnAddress is where a sub-flow resumes its caller: the parent flow and
// the step inside it that should run next.
type ReturnAddress struct {
	Flow Flow `json:"flow"`
	Step Step `json:"step"`
}

// StopDraft is one address being collected during a conversation. Coordinates
// are optional: a typed address has none, and a GPS share may lack a
// longitude.
type StopDraft struct {
	AddressText string   `json:"address_text"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Role        string   `json:"role"`
	Order       int      `json:"order"`
}

// RegistrationDraft accumulates the answers of the registration flow.
type RegistrationDraft struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	DNI      string `json:"dni,omitempty"`
}

// DriverPick holds the driver chosen by the driver-selection sub-flow, copied
// into the trip draft when the sub-flow returns.
type DriverPick struct {
	DriverID   int64  `json:"driver_id"`
	DriverName string `json:"driver_name,omitempty"`
	VehicleID  *int64 `json:"vehicle_id,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// TripDraft is the working set shared by the trip-building flows. Only the
// fields relevant to the flow in progress are populated.
type TripDraft struct {
	CustomKind     string     `json:"custom_kind,omitempty"`
	PassengerCount int        `json:"passenger_count,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	DepartureTime  *time.Time `json:"departure_time,omitempty"`
	ArrivalTime    *time.Time `json:"arrival_time,omitempty"`

	// One-way flags.
	AllowSharedRide bool `json:"allow_shared_ride,omitempty"`
	IsReserved      bool `json:"is_reserved,omitempty"`

	// Round-trip fields.
	RequiresWait    bool  `json:"requires_wait,omitempty"`
	WaitTimeMinutes *int  `json:"wait_time_minutes,omitempty"`
	ReuseOutbound   *bool `json:"reuse_outbound_locations,omitempty"`

	// Parcel fields.
	Title       string   `json:"title,omitempty"`
	Description string   `json:"package_description,omitempty"`
	WeightKg    *float64 `json:"weight,omitempty"`
	Dimensions  string   `json:"dimensions,omitempty"`

	// Simple pickup/delivery pair collected by the location sub-flow.
	Pickup   *StopDraft `json:"pickup,omitempty"`
	Delivery *StopDraft `json:"delivery,omitempty"`

	// Multi-stop lists collected by the multilocation sub-flow.
	OutboundStops []StopDraft `json:"outbound_stops,omitempty"`
	ReturnStops   []StopDraft `json:"return_stops,omitempty"`

	Driver *DriverPick `json:"driver,omitempty"`
}

// StopCollector is the working set of the multilocation sub-flow: which leg
// it is collecting for and the stop currently being assembled.
type StopCollector struct {
	Context     string     `json:"context"`
	Current     *StopDraft `json:"current,omitempty"`
	PendingRole string     `json:"pending_role,omitempty"`
}

// Scratch is the typed union of everything a dialogue can accumulate between
// turns. It is persisted as a single JSON document with the conversation
// state, so a process restart or takeover resumes with the same data. Each
// flow touches only its own section; the Returns stack is shared by the
// delegation machinery.
type Scratch struct {
	Registration *RegistrationDraft `json:"registration,omitempty"`
	Trip         *TripDraft         `json:"trip,omitempty"`
	Stops        *StopCollector     `json:"stops,omitempty"`
	Returns      []ReturnAddress    `json:"returns,omitempty"`
}

// TripDraftOrNew returns the trip draft, allocating it on first use.
func (s *Scratch) TripDraftOrNew() *TripDraft {
	if s.Trip == nil {
		s.Trip = &TripDraft{}
	}
	return s.Trip
}

// RegistrationOrNew returns the registration draft, allocating it on first use.
func (s *Scratch) RegistrationOrNew() *RegistrationDraft {
	if s.Registration == nil {
		s.Registration = &RegistrationDraft{}
	}
	return s.Registration
}

// StopsOrNew returns the stop collector, allocating it on first use.
func (s *Scratch) StopsOrNew() *StopCollector {
	if s.Stops == nil {
		s.Stops = &StopCollector{}
	}
	return s.Stops
}

// PushReturn records a return address before entering a sub-flow.
// The stack depth is bounded by MaxReturnDepth.
func (s *Scratch) PushReturn(addr ReturnAddress) error {
	if len(s.Returns) >= MaxReturnDepth {
		return errs.NewValueIsOutOfRangeError("returns", len(s.Returns)+1, 0, MaxReturnDepth)
	}
	s.Returns = append(s.Returns, addr)
	return nil
}

// PopReturn removes and returns the most recent return address.
func (s *Scratch) PopReturn() (ReturnAddress, error) {
	if len(s.Returns) == 0 {
		return ReturnAddress{}, errs.NewValueIsInvalidErrorWithCause("returns",
			fmt.Errorf("no return address recorded"))
	}
	addr := s.Returns[len(s.Returns)-1]
	s.Returns = s.Returns[:len(s.Returns)-1]
	return addr, nil
}
