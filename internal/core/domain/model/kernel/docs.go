// Package kernel provides core domain primitives for the trip coordination system.
// It implements fundamental building blocks following Domain-Driven Design principles
// that are used throughout the domain model.
//
// The package includes:
//   - GeoPoint: A value object for WGS84 coordinates with haversine distance
//   - Phone: A value object for the messaging identity of a participant
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
package kernel
