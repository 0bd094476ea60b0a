package trip

import (
	"fmt"

	"tripdesk/internal/pkg/errs"
)

// Status represents the lifecycle state of a trip.
// It implements a state machine with defined transitions to ensure
// trips follow the correct business workflow.
//
// State transitions:
//
//	Available <──> Pending ──> InProgress ──> Finished
//	     │            │             │
//	     └────────────┴─────────────┴──> Canceled
//
// The Available <-> Pending pair models a driver accepting an offer and
// releasing it back to the pool. Finished and Canceled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Available is the initial status of a trip without a driver.
	// Trips in this status are offered to drivers and can be accepted.
	Available

	// Pending indicates a driver has committed to the trip but has not
	// started it yet. The trip can still be released back to Available.
	Pending

	// InProgress indicates the driver has started the trip.
	InProgress

	// Finished indicates the trip completed normally. Terminal.
	Finished

	// Canceled indicates the trip was abandoned. Terminal.
	Canceled
)

// getStatusStrings returns a map of Status values to their persisted string
// representations. The values are the Spanish labels the fleet operators see.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Available:  "Disponible",
		Pending:    "Pendiente",
		InProgress: "En progreso",
		Finished:   "Finalizado",
		Canceled:   "Cancelado",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Available:  "Disponible",
		Pending:    "Pendiente",
		InProgress: "En progreso",
		Finished:   "Finalizado",
		Canceled:   "Cancelado",
	}
}

// StatusFromString parses a persisted status label back into a Status.
//
// Returns:
//   - the matching Status for a known label
//   - an error for unknown labels
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted label of the status.
// Implements the fmt.Stringer interface and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Finished || s == Canceled
}

// ValidateCanHaveDriver validates the consistency between trip status and
// driver assignment.
//
// Business rules:
//   - Available trips must not have a driver assigned
//   - Pending, InProgress and Finished trips must have a driver assigned
//   - Canceled trips may or may not have one (cancellation keeps whatever
//     assignment existed at the time)
//
// Parameters:
//   - driver: whether the trip has a driver assigned
//
// Returns:
//   - error: validation error if status and driver assignment are inconsistent
func (s Status) ValidateCanHaveDriver(driver bool) error {
	if driver && s == Available {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a driver", s.String()),
		)
	}

	if !driver && (s == Pending || s == InProgress || s == Finished) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no driver", s.String()),
		)
	}

	return nil
}

// Accept transitions the status to Pending.
//
// Valid transitions:
//   - Available -> Pending (driver commits to the trip)
//
// Any other source status means another driver got there first or the trip
// already progressed, and the caller should surface errs.ErrAlreadyHandled.
//
// Returns:
//   - (Pending, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Accept() (Status, error) {
	if s != Available {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to accept", s.String()),
		)
	}

	return Pending, nil
}

// Release transitions the status back to Available.
//
// Valid transitions:
//   - Pending -> Available (driver backs out before starting)
//
// Returns:
//   - (Available, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Release() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to release", s.String()),
		)
	}

	return Available, nil
}

// Start transitions the status to InProgress.
//
// Valid transitions:
//   - Pending -> InProgress (driver begins the trip)
//   - InProgress -> InProgress (repeated start is a no-op)
//
// Returns:
//   - (InProgress, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Start() (Status, error) {
	if s != Pending && s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start", s.String()),
		)
	}

	return InProgress, nil
}

// Finish transitions the status to Finished.
//
// Valid transitions:
//   - InProgress -> Finished
//
// Returns:
//   - (Finished, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Finish() (Status, error) {
	if s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to finish", s.String()),
		)
	}

	return Finished, nil
}

// Cancel transitions the status to Canceled.
//
// Valid transitions:
//   - Available, Pending, InProgress -> Canceled
//
// Terminal statuses cannot be canceled.
//
// Returns:
//   - (Canceled, nil) on valid transition
//   - (0, error) if transition is not allowed from current status
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}

	return Canceled, nil
}
