package conversation

import (
	"errors"
	"time"

	"tripdesk/internal/core/domain/model/kernel"
)

// Flow names a dialogue state machine. Step names a state inside it.
// An empty step means the flow is at its entry point (or idle, for the menu).
type (
	Flow string
	Step string
)

// Flows known to the engine. Flow handler registration uses these names, and
// they are persisted verbatim, so renaming one is a data migration.
const (
	FlowRegistration    Flow = "registration"
	FlowMenu            Flow = "menu"
	FlowTripRequest     Flow = "trip_request"
	FlowRoundTrip       Flow = "round_trip"
	FlowParcel          Flow = "parcel"
	FlowLocation        Flow = "location"
	FlowMultilocation   Flow = "multilocation"
	FlowDriverSelection Flow = "driver_selection"
)

// StepStart is the conventional entry step of every flow.
const StepStart Step = "start"

// ErrStateIsNotConstructed is returned when a State instance was not created
// through NewState or RestoreState.
var ErrStateIsNotConstructed = errors.New("State must be created via NewState or RestoreState")

// State is the persistent position of one phone number's dialogue: which
// flow and step the conversation is at, plus the scratch data accumulated so
// far. It is the aggregate the flow engine loads at the start of a turn and
// saves after every handler invocation, so any process can resume the
// dialogue after a restart.
type State struct {
	id         int64
	phone      kernel.Phone
	travelerID *int64
	flow       Flow
	step       Step
	scratch    *Scratch
	createdAt  time.Time

	isConstructed bool
}

// NewState creates the dialogue state for a phone number seen for the first
// time, positioned at the entry of the given flow.
func NewState(phone kernel.Phone, flow Flow, step Step) (*State, error) {
	if err := phone.Validate(); err != nil {
		return nil, err
	}

	return &State{
		phone:         phone,
		flow:          flow,
		step:          step,
		scratch:       &Scratch{},
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreState reconstructs a dialogue state from persistence.
// A nil scratch is replaced with an empty one so handlers never see nil.
func RestoreState(
	id int64,
	phone kernel.Phone,
	travelerID *int64,
	flow Flow,
	step Step,
	scratch *Scratch,
	createdAt time.Time,
) (*State, error) {
	if err := phone.Validate(); err != nil {
		return nil, err
	}
	if scratch == nil {
		scratch = &Scratch{}
	}

	return &State{
		id:            id,
		phone:         phone,
		travelerID:    travelerID,
		flow:          flow,
		step:          step,
		scratch:       scratch,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the State was properly constructed.
func (s *State) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStateIsNotConstructed
	}
	return nil
}

// ID returns the storage identifier, 0 until persisted.
func (s *State) ID() int64 {
	return s.id
}

// AssignID sets the storage-generated identifier after the first insert.
func (s *State) AssignID(id int64) {
	if s.id == 0 {
		s.id = id
	}
}

// Phone returns the messaging identity this state belongs to.
func (s *State) Phone() kernel.Phone {
	return s.phone
}

// Traveler returns the linked traveler id, nil before registration completes.
func (s *State) Traveler() *int64 {
	return s.travelerID
}

// LinkTraveler attaches the registered traveler to this conversation.
func (s *State) LinkTraveler(travelerID int64) {
	s.travelerID = &travelerID
}

// IsRegistered reports whether registration has completed for this phone.
func (s *State) IsRegistered() bool {
	return s.travelerID != nil
}

// Flow returns the current flow.
func (s *State) Flow() Flow {
	return s.flow
}

// Step returns the current step within the flow.
func (s *State) Step() Step {
	return s.step
}

// Scratch returns the scratch data. Never nil for a constructed state.
func (s *State) Scratch() *Scratch {
	if s.scratch == nil {
		s.scratch = &Scratch{}
	}
	return s.scratch
}

// CreatedAt returns the creation timestamp.
func (s *State) CreatedAt() time.Time {
	return s.createdAt
}

// Advance moves to another step within the current flow.
func (s *State) Advance(step Step) {
	s.step = step
}

// SwitchFlow moves to a different flow at the given step. Scratch data is
// kept: delegation between flows relies on it surviving the switch.
func (s *State) SwitchFlow(flow Flow, step Step) {
	s.flow = flow
	s.step = step
}

// Delegate records where the current flow should resume and enters a
// sub-flow at its start step. Fails when the return stack is full.
func (s *State) Delegate(sub Flow, resumeStep Step) error {
	if err := s.Scratch().PushReturn(ReturnAddress{Flow: s.flow, Step: resumeStep}); err != nil {
		return err
	}
	s.SwitchFlow(sub, StepStart)
	return nil
}

// ReturnToCaller pops the most recent return address and moves there.
func (s *State) ReturnToCaller() error {
	addr, err := s.Scratch().PopReturn()
	if err != nil {
		return err
	}
	s.SwitchFlow(addr.Flow, addr.Step)
	return nil
}

// ResetToMenu ends the current dialogue: scratch is cleared and the state is
// positioned at the idle menu. Called on completion, abort and fallback.
func (s *State) ResetToMenu() {
	s.scratch = &Scratch{}
	s.flow = FlowMenu
	s.step = ""
}
