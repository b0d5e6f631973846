package domain_test

import (
	"errors"
	"testing"

	"github.com/roadbook/roadbook/internal/core/domain"
)

func TestRouteSpecValidate(t *testing.T) {
	valid := domain.RouteSpec{
		Day:   3,
		Start: domain.GeoPoint{Lat: 30.0, Lng: -115.0},
		End:   domain.GeoPoint{Lat: 30.5, Lng: -115.5},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.RouteSpec)
	}{
		{"day zero", func(s *domain.RouteSpec) { s.Day = 0 }},
		{"unset start", func(s *domain.RouteSpec) { s.Start = domain.GeoPoint{} }},
		{"unset end", func(s *domain.RouteSpec) { s.End = domain.GeoPoint{} }},
		{"start out of bounds", func(s *domain.RouteSpec) { s.Start = domain.GeoPoint{Lat: 95, Lng: 10} }},
		{"zero waypoint", func(s *domain.RouteSpec) { s.Waypoints = []domain.GeoPoint{{}} }},
	}

	for _, tc := range cases {
		spec := valid
		tc.mutate(&spec)
		err := spec.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !domain.IsValidation(err) {
			t.Errorf("%s: expected ValidationError, got %T", tc.name, err)
		}
	}
}

func TestRouteSpecPointSequence(t *testing.T) {
	spec := domain.RouteSpec{
		Day:       1,
		Start:     domain.GeoPoint{Lat: 1, Lng: 1},
		End:       domain.GeoPoint{Lat: 2, Lng: 2},
		Waypoints: []domain.GeoPoint{{Lat: 1.5, Lng: 1.5}},
	}

	seq := spec.PointSequence()
	if len(seq) != 3 {
		t.Fatalf("expected 3 points, got %d", len(seq))
	}
	if seq[0] != spec.Start || seq[1] != spec.Waypoints[0] || seq[2] != spec.End {
		t.Errorf("sequence out of order: %+v", seq)
	}
}

func TestRouteSpecRestDay(t *testing.T) {
	pt := domain.GeoPoint{Lat: 30, Lng: -115}
	spec := domain.RouteSpec{Day: 1, Start: pt, End: pt}
	if !spec.RestDay() {
		t.Error("same start and end should be a rest day")
	}
	spec.End = domain.GeoPoint{Lat: 31, Lng: -115}
	if spec.RestDay() {
		t.Error("different endpoints should not be a rest day")
	}
}

func TestStoredPath(t *testing.T) {
	doc := &domain.RouteDocument{Day: 1}
	if doc.StoredPath() != nil {
		t.Error("document without geometry should have no stored path")
	}

	doc.RouteGeometry = &domain.LineString{Type: "LineString"}
	if doc.StoredPath() != nil {
		t.Error("empty coordinate list should have no stored path")
	}

	doc.RouteGeometry = domain.NewLineString(domain.Path{{Lat: 30, Lng: -115}})
	path := doc.StoredPath()
	if len(path) != 1 {
		t.Fatalf("expected 1 point, got %d", len(path))
	}
}

func TestStoredPath_AllCorrupt(t *testing.T) {
	doc := &domain.RouteDocument{
		Day: 1,
		RouteGeometry: &domain.LineString{
			Type:        "LineString",
			Coordinates: []domain.GeoPoint{{Lat: 200, Lng: 200}},
		},
	}
	if doc.StoredPath() != nil {
		t.Error("fully corrupt geometry should resolve to no stored path")
	}
}

func TestErrGeometryNotSavedIsDistinct(t *testing.T) {
	if errors.Is(domain.ErrGeometryNotSaved, domain.ErrProviderUnavailable) {
		t.Error("storage failure must not be conflated with provider failure")
	}
}
