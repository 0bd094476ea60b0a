package services

import (
	"math"

	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/domain/model/trip"
)

// RoutePlanner is a domain service that orders a trip's waypoints by greedy
// nearest-neighbor from the driver's current position.
//
// Key behavior:
//   - With no known start position it degrades gracefully: waypoints keep
//     their original order with no distances attached
//   - Otherwise: repeatedly pick the remaining waypoint closest (haversine)
//     to the current position, append it, and move the current position there
//   - Ties resolve to the first waypoint in iteration order, so the result
//     is deterministic for a fixed input order
//   - A waypoint missing a coordinate substitutes the current position's
//     value for that axis instead of failing
//
// The algorithm is O(n²); trips carry a handful of stops, so a smarter
// structure would buy nothing.
type RoutePlanner struct{}

// NewRoutePlanner creates a new RoutePlanner instance.
func NewRoutePlanner() RoutePlanner {
	return RoutePlanner{}
}

// OrderWaypoints returns the waypoints in visiting order with
// DistanceFromStartKm filled in and order indexes renumbered from 1.
//
// Parameters:
//   - start: the driver's current position, nil when unknown
//   - waypoints: the stops to order
//
// Returns:
//   - the ordered waypoints; when start is nil, the original order with nil
//     distances (degraded mode, not an error)
func (p RoutePlanner) OrderWaypoints(start *kernel.GeoPoint, waypoints []trip.Waypoint) []trip.Waypoint {
	if start == nil {
		out := make([]trip.Waypoint, len(waypoints))
		for i, w := range waypoints {
			w.DistanceFromStartKm = nil
			out[i] = w
		}
		return out
	}

	remaining := make([]trip.Waypoint, len(waypoints))
	copy(remaining, waypoints)

	ordered := make([]trip.Waypoint, 0, len(waypoints))
	curLat, curLon := start.Latitude(), start.Longitude()

	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := math.MaxFloat64

		for i, w := range remaining {
			lat, lon := effectiveCoords(w, curLat, curLon)
			if d := kernel.HaversineKm(curLat, curLon, lat, lon); d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}

		best := remaining[bestIdx]
		lat, lon := effectiveCoords(best, curLat, curLon)
		best.DistanceFromStartKm = &bestDist
		best.Order = len(ordered) + 1
		ordered = append(ordered, best)

		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		curLat, curLon = lat, lon
	}

	return ordered
}

// effectiveCoords resolves a waypoint's coordinate for distance computation,
// substituting the current position for any missing axis.
func effectiveCoords(w trip.Waypoint, curLat, curLon float64) (float64, float64) {
	lat, lon := curLat, curLon
	if w.Latitude != nil {
		lat = *w.Latitude
	}
	if w.Longitude != nil {
		lon = *w.Longitude
	}
	return lat, lon
}
