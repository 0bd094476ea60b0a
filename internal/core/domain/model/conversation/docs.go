// Package conversation models the persistent dialogue state of a messaging
// user: the flow and step the conversation is parked at, the typed scratch
// data accumulated across turns, and the bounded stack of return addresses
// that lets flows delegate to sub-flows and resume afterwards.
//
// Everything in this package survives process restarts; a turn arriving
// days later resumes exactly where the persisted state says.
package conversation
