// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the trip coordination system. It implements
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - RoutePlanner: A domain service that orders a trip's waypoints by greedy
//     nearest-neighbor from the driver's position at trip start
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
