package geospatial

import (
	"math"

	"github.com/roadbook/roadbook/internal/core/domain"
)

// DefaultToleranceDegrees is roughly 50 meters of deviation at mid-latitudes.
// It trades visual fidelity against document size; callers tune it through
// configuration rather than relying on this constant.
const DefaultToleranceDegrees = 0.0005

// Simplify reduces a dense path with the Douglas-Peucker algorithm. The
// result is a subsequence of the input: the first and last points are always
// retained, and every discarded point lies within toleranceDegrees of the
// segment that replaces it. Identical input and tolerance always produce
// identical output. Paths of length 2 or less are returned unchanged.
func Simplify(path domain.Path, toleranceDegrees float64) domain.Path {
	if len(path) <= 2 || toleranceDegrees <= 0 {
		return path
	}

	keep := make([]bool, len(path))
	keep[0] = true
	keep[len(path)-1] = true
	simplifyRange(path, 0, len(path)-1, toleranceDegrees, keep)

	out := make(domain.Path, 0, len(path))
	for i, k := range keep {
		if k {
			out = append(out, path[i])
		}
	}
	return out
}

// simplifyRange marks points to keep between first and last (exclusive).
func simplifyRange(path domain.Path, first, last int, tolerance float64, keep []bool) {
	if last-first < 2 {
		return
	}

	maxDist := 0.0
	maxIdx := first
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(path[i], path[first], path[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= tolerance {
		return
	}

	keep[maxIdx] = true
	simplifyRange(path, first, maxIdx, tolerance, keep)
	simplifyRange(path, maxIdx, last, tolerance, keep)
}

// SimplifyMax simplifies and additionally enforces an upper bound on the
// point count by doubling the tolerance until the path fits. The bound keeps
// stored documents within the document store's size budget even for very
// long or winding legs.
func SimplifyMax(path domain.Path, toleranceDegrees float64, maxPoints int) domain.Path {
	out := Simplify(path, toleranceDegrees)
	if maxPoints < 2 {
		return out
	}
	for i := 0; i < 16 && len(out) > maxPoints; i++ {
		toleranceDegrees *= 2
		out = Simplify(path, toleranceDegrees)
	}
	return out
}

// perpendicularDistance is the planar distance in degrees from p to the
// segment a-b. Degree space is adequate here: tolerances are tiny and the
// same metric is used for both the keep decision and the stated bound.
func perpendicularDistance(p, a, b domain.GeoPoint) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat

	if dx == 0 && dy == 0 {
		return math.Hypot(p.Lng-a.Lng, p.Lat-a.Lat)
	}

	t := ((p.Lng-a.Lng)*dx + (p.Lat-a.Lat)*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	projLng := a.Lng + t*dx
	projLat := a.Lat + t*dy
	return math.Hypot(p.Lng-projLng, p.Lat-projLat)
}
