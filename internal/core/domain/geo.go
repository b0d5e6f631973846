package domain

import "math"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies within coordinate bounds and both
// components are finite numbers.
func (p GeoPoint) Valid() bool {
	return isFinite(p.Lat) && isFinite(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lng >= -180 && p.Lng <= 180
}

// IsZero reports whether the point is the (0,0) placeholder. Editors leave
// coordinates at zero until they fill them in, so (0,0) means "unset".
func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// Path is an ordered sequence of geographic coordinates describing a route
// line. A path of length 1 is a point, not a route.
type Path []GeoPoint

// Coordinates returns the path in GeoJSON position order ([lng, lat] pairs),
// the form map layers and the directions provider speak.
func (p Path) Coordinates() [][2]float64 {
	coords := make([][2]float64, len(p))
	for i, pt := range p {
		coords[i] = [2]float64{pt.Lng, pt.Lat}
	}
	return coords
}

// FromCoordinates builds a Path from GeoJSON positions ([lng, lat] pairs).
// Elements that are not well-formed pairs of finite, in-bounds numbers are
// dropped rather than failing the whole path.
func FromCoordinates(coords [][]float64) Path {
	path := make(Path, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		pt := GeoPoint{Lat: c[1], Lng: c[0]}
		if !pt.Valid() {
			continue
		}
		path = append(path, pt)
	}
	return path
}

// ToStorage converts a path to the keyed {lat,lng} form used by the persisted
// document, which cannot hold nested arrays.
func ToStorage(p Path) []GeoPoint {
	stored := make([]GeoPoint, len(p))
	copy(stored, p)
	return stored
}

// FromStorage rebuilds a Path from the persisted {lat,lng} form. Malformed
// points (NaN, Inf, out of bounds) are dropped so a single corrupt element
// degrades by exclusion instead of aborting the whole route's geometry.
func FromStorage(stored []GeoPoint) Path {
	path := make(Path, 0, len(stored))
	for _, pt := range stored {
		if !pt.Valid() {
			continue
		}
		path = append(path, pt)
	}
	return path
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
