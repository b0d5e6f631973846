package domain

import (
	"fmt"
	"time"
)

// POICategory classifies a point of interest on a day's route.
type POICategory string

const (
	POIFuel     POICategory = "fuel"
	POIFood     POICategory = "food"
	POILodging  POICategory = "lodging"
	POIScenic   POICategory = "scenic"
	POIWarning  POICategory = "warning"
	POIMeetup   POICategory = "meetup"
	POIOther    POICategory = "other"
)

// KnownPOICategory reports whether c is one of the defined categories.
func KnownPOICategory(c POICategory) bool {
	switch c {
	case POIFuel, POIFood, POILodging, POIScenic, POIWarning, POIMeetup, POIOther:
		return true
	}
	return false
}

// POI is a point of interest attached to a day's route document.
type POI struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates GeoPoint    `json:"coordinates"`
	Category    POICategory `json:"category"`
	Description string      `json:"description,omitempty"`
}

// RouteSpec is the editor-supplied input to route generation: the endpoints
// of one day's leg plus any via-points, traversed in listed order.
type RouteSpec struct {
	Day       int        `json:"day"`
	Start     GeoPoint   `json:"start"`
	End       GeoPoint   `json:"end"`
	Waypoints []GeoPoint `json:"waypoints,omitempty"`
}

// Validate checks the generation preconditions. It returns a ValidationError
// so callers can distinguish editor mistakes from provider failures.
func (s RouteSpec) Validate() error {
	if s.Day < 1 {
		return &ValidationError{Field: "day", Reason: fmt.Sprintf("must be a positive day index, got %d", s.Day)}
	}
	if s.Start.IsZero() {
		return &ValidationError{Field: "start", Reason: "start coordinates are not set"}
	}
	if !s.Start.Valid() {
		return &ValidationError{Field: "start", Reason: "start coordinates are out of bounds"}
	}
	if s.End.IsZero() {
		return &ValidationError{Field: "end", Reason: "end coordinates are not set"}
	}
	if !s.End.Valid() {
		return &ValidationError{Field: "end", Reason: "end coordinates are out of bounds"}
	}
	for i, wp := range s.Waypoints {
		if !wp.Valid() || wp.IsZero() {
			return &ValidationError{
				Field:  "waypoints",
				Reason: fmt.Sprintf("waypoint %d is not a usable coordinate", i),
			}
		}
	}
	return nil
}

// PointSequence returns [start, waypoints..., end], the ordered list handed
// to the directions provider.
func (s RouteSpec) PointSequence() []GeoPoint {
	seq := make([]GeoPoint, 0, len(s.Waypoints)+2)
	seq = append(seq, s.Start)
	seq = append(seq, s.Waypoints...)
	seq = append(seq, s.End)
	return seq
}

// RestDay reports whether start and end are the same coordinate, meaning the
// group stays put and no route line should be drawn.
func (s RouteSpec) RestDay() bool {
	return s.Start == s.End
}

// GeneratedGeometry is the pipeline's output for one day: the simplified
// road-following path plus display-ready trip metrics.
type GeneratedGeometry struct {
	Path             Path   `json:"path"`
	DistanceMiles    int    `json:"distanceMiles"`
	EstimatedTime    string `json:"estimatedTime"`
	SourcePointCount int    `json:"sourcePointCount"`
}

// LineString is the persisted geometry container. Coordinates are stored in
// the keyed {lat,lng} form because the document store cannot hold nested
// arrays.
type LineString struct {
	Type        string     `json:"type"`
	Coordinates []GeoPoint `json:"coordinates"`
}

// NewLineString wraps a path in its storage representation.
func NewLineString(p Path) *LineString {
	return &LineString{Type: "LineString", Coordinates: ToStorage(p)}
}

// RouteDocument is the persisted aggregate for one tour day. Exactly one
// document exists per day index; it is created empty when a day is first
// referenced and only ever overwritten, never deleted.
type RouteDocument struct {
	Day               int         `json:"day"`
	Title             string      `json:"title,omitempty"`
	Description       string      `json:"description,omitempty"`
	RideSummary       string      `json:"rideSummary,omitempty"`
	StartCoordinates  GeoPoint    `json:"startCoordinates"`
	EndCoordinates    GeoPoint    `json:"endCoordinates"`
	Waypoints         []GeoPoint  `json:"waypoints,omitempty"`
	RouteGeometry     *LineString `json:"routeGeometry,omitempty"`
	EstimatedDistance int         `json:"estimatedDistance,omitempty"`
	EstimatedTime     string      `json:"estimatedTime,omitempty"`
	SourcePointCount  int         `json:"sourcePointCount,omitempty"`
	POIs              []POI       `json:"pois,omitempty"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Spec extracts the generation input from the document's endpoint fields.
func (d *RouteDocument) Spec() RouteSpec {
	return RouteSpec{
		Day:       d.Day,
		Start:     d.StartCoordinates,
		End:       d.EndCoordinates,
		Waypoints: d.Waypoints,
	}
}

// StoredPath returns the persisted geometry as a Path, dropping malformed
// points. A nil return means there is no usable stored geometry.
func (d *RouteDocument) StoredPath() Path {
	if d.RouteGeometry == nil || len(d.RouteGeometry.Coordinates) == 0 {
		return nil
	}
	path := FromStorage(d.RouteGeometry.Coordinates)
	if len(path) == 0 {
		return nil
	}
	return path
}

// DocumentDetails are the free-text fields an editor may change outside the
// generation workflow. Updates are last-write-wins at the document level.
type DocumentDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RideSummary string `json:"rideSummary"`
}
