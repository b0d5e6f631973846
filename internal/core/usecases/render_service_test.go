package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/roadbook/roadbook/internal/core/domain"
	"github.com/roadbook/roadbook/internal/core/usecases"
)

func dayDoc(day int) *domain.RouteDocument {
	return &domain.RouteDocument{
		Day:              day,
		StartCoordinates: domain.GeoPoint{Lat: 30, Lng: -115},
		EndCoordinates:   domain.GeoPoint{Lat: 31, Lng: -114},
	}
}

func TestRenderService_Resolve_StoredGeometryWins(t *testing.T) {
	doc := dayDoc(1)
	doc.RouteGeometry = domain.NewLineString(domain.Path{
		{Lat: 30, Lng: -115},
		{Lat: 30.5, Lng: -114.6},
		{Lat: 31, Lng: -114},
	})

	repo := &mockDocRepo{
		getByDayFn: func(ctx context.Context, day int) (*domain.RouteDocument, error) {
			return doc, nil
		},
	}
	directions := &mockDirections{}

	svc := usecases.NewRenderService(repo, directions, nil)
	resolved, err := svc.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Tier != usecases.TierStored {
		t.Errorf("expected stored tier, got %s", resolved.Tier)
	}
	if len(resolved.Path) != 3 {
		t.Errorf("expected 3 points, got %d", len(resolved.Path))
	}
	if directions.calls != 0 {
		t.Errorf("provider called %d times with stored geometry present, want 0", directions.calls)
	}
}

func TestRenderService_Resolve_RestDayIsEmptyWithoutNetwork(t *testing.T) {
	pt := domain.GeoPoint{Lat: 30, Lng: -115}
	repo := &mockDocRepo{
		getByDayFn: func(ctx context.Context, day int) (*domain.RouteDocument, error) {
			return &domain.RouteDocument{Day: day, StartCoordinates: pt, EndCoordinates: pt}, nil
		},
	}
	directions := &mockDirections{}

	svc := usecases.NewRenderService(repo, directions, newMockCache())
	resolved, err := svc.Resolve(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Tier != usecases.TierRestDay {
		t.Errorf("expected rest_day tier, got %s", resolved.Tier)
	}
	if len(resolved.Path) != 0 {
		t.Errorf("expected empty path, got %d points", len(resolved.Path))
	}
	if directions.calls != 0 {
		t.Errorf("provider called %d times on a rest day, want 0", directions.calls)
	}
}

func TestRenderService_Resolve_LiveFetchWhenNoStoredGeometry(t *testing.T) {
	repo := &mockDocRepo{
		getByDayFn: func(ctx context.Context, day int) (*domain.RouteDocument, error) {
			return dayDoc(day), nil
		},
	}
	directions := &mockDirections{
		fetchRouteFn: func(ctx context.Context, points []domain.GeoPoint) (domain.Path, float64, float64, error) {
			return domain.Path{
				{Lat: 30, Lng: -115},
				{Lat: 30.4, Lng: -114.7},
				{Lat: 31, Lng: -114},
			}, 1000, 60, nil
		},
	}
	cache := newMockCache()

	svc := usecases.NewRenderService(repo, directions, cache)
	resolved, err := svc.Resolve(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Tier != usecases.TierLive {
		t.Errorf("expected live tier, got %s", resolved.Tier)
	}
	if len(resolved.Path) != 3 {
		t.Errorf("expected 3 points, got %d", len(resolved.Path))
	}
	if len(cache.store) != 1 {
		t.Errorf("expected live path cached, store has %d entries", len(cache.store))
	}

	// Second resolve must come from the cache, not the provider.
	resolved, err = svc.Resolve(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Tier != usecases.TierLive {
		t.Errorf("expected live tier on cached resolve, got %s", resolved.Tier)
	}
	if directions.calls != 1 {
		t.Errorf("provider called %d times, want 1 (second hit cached)", directions.calls)
	}
}

func TestRenderService_Resolve_CachedPathSurvivesRoundTrip(t *testing.T) {
	want := domain.Path{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}
	repo := &mockDocRepo{
		getByDayFn: func(ctx context.Context, day int) (*domain.RouteDocument, error) {
			return dayDoc(day), nil
		},
	}
	directions := &mockDirections{
		fetchRouteFn: func(ctx context.Context, points []domain.GeoPoint) (domain.Path, float64, float64, error) {
			return want, 1000, 60, nil
		},
	}
	cache := newMockCache()

	svc := usecases.NewRenderService(repo, directions, cache)
	if _, err := svc.Resolve(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved.Path) != len(want) {
		t.Fatalf("expected %d points after cache round trip, got %d", len(want), len(resolved.Path))
	}
	for i := range want {
		// Polyline encoding quantizes to 1e-5 degrees.
		if diff(resolved.Path[i].Lat, want[i].Lat) > 1e-5 || diff(resolved.Path[i].Lng, want[i].Lng) > 1e-5 {
			t.Errorf("point %d drifted: got %+v, want %+v", i, resolved.Path[i], want[i])
		}
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestRenderService_Resolve_StraightLineFallback(t *testing.T) {
	waypoint := domain.GeoPoint{Lat: 30.5, Lng: -114.5}
	repo := &mockDocRepo{
		getByDayFn: func(ctx context.Context, day int) (*domain.RouteDocument, error) {
			doc := dayDoc(day)
			doc.Waypoints = []domain.GeoPoint{waypoint}
			return doc, nil
		},
	}
	directions := &mockDirections{
		fetchRouteFn: func(ctx context.Context, points []domain.GeoPoint) (domain.Path, float64, float64, error) {
			return nil, 0, 0, domain.ErrProviderUnavailable
		},
	}

	svc := usecases.NewRenderService(repo, directions, nil)
	resolved, err := svc.Resolve(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Tier != usecases.TierStraight {
		t.Errorf("expected straight_line tier, got %s", resolved.Tier)
	}
	if len(resolved.Path) != 3 {
		t.Fatalf("expected start, waypoint, end; got %d points", len(resolved.Path))
	}
	if resolved.Path[0] != (domain.GeoPoint{Lat: 30, Lng: -115}) {
		t.Errorf("straight line must start at the day's start, got %+v", resolved.Path[0])
	}
	if resolved.Path[1] != waypoint {
		t.Errorf("straight line must pass through the waypoints, got %+v", resolved.Path[1])
	}
}

func TestRenderService_Resolve_CorruptStoredGeometryFallsThrough(t *testing.T) {
	doc := dayDoc(6)
	doc.RouteGeometry = &domain.LineString{
		Type:        "LineString",
		Coordinates: []domain.GeoPoint{{Lat: 200, Lng: 200}, {Lat: 300, Lng: -300}},
	}
	repo := &mockDocRepo{
		getByDayFn: func(ctx context.Context, day int) (*domain.RouteDocument, error) {
			return doc, nil
		},
	}
	directions := &mockDirections{
		fetchRouteFn: func(ctx context.Context, points []domain.GeoPoint) (domain.Path, float64, float64, error) {
			return nil, 0, 0, domain.ErrNoRouteFound
		},
	}

	svc := usecases.NewRenderService(repo, directions, nil)
	resolved, err := svc.Resolve(context.Background(), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Tier != usecases.TierStraight {
		t.Errorf("expected straight_line tier for corrupt geometry, got %s", resolved.Tier)
	}
}

func TestRenderService_Resolve_MissingDocument(t *testing.T) {
	svc := usecases.NewRenderService(&mockDocRepo{}, &mockDirections{}, nil)
	_, err := svc.Resolve(context.Background(), 42)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
