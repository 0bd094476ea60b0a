// Package trip contains the trip aggregate: the lifecycle state machine,
// the kind payloads (normal, parcel, custom one-way/round/tour) and the
// waypoint list a trip owns.
//
// A trip moves through Available -> Pending -> InProgress -> Finished, with
// Pending releasable back to Available and any non-terminal status
// cancelable. Driver assignment is coupled to the status: Available trips
// never have one, committed trips always do.
package trip
