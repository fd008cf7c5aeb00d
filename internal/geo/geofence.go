package geo

import "math"

// metersPerDegree scales latitude/longitude degree deltas to meters.
// Good enough at campus scale; drifts with latitude and distance.
const metersPerDegree = 111320

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the approximate distance in meters between two points,
// treating degree deltas as locally Euclidean. Do not use beyond roughly
// a kilometer; it is a flat-plane shortcut, not great-circle distance.
func Distance(a, b Coordinate) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat+dLng*dLng) * metersPerDegree
}

// Evaluate reports whether observed is strictly within thresholdMeters of
// reference. The boundary itself fails. A missing coordinate on either
// side is never treated as within range.
func Evaluate(observed, reference *Coordinate, thresholdMeters float64) bool {
	if observed == nil || reference == nil {
		return false
	}
	return Distance(*observed, *reference) < thresholdMeters
}
