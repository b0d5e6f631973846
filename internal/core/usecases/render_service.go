package usecases

import (
	"context"

	"github.com/twpayne/go-polyline"

	"github.com/roadbook/roadbook/internal/core/domain"
	"github.com/roadbook/roadbook/internal/core/ports"
)

// Resolution tiers, in preference order. Rendering never fails hard: when the
// preferred source is unavailable the resolver degrades one tier.
const (
	TierRestDay  = "rest_day"
	TierStored   = "stored"
	TierLive     = "live"
	TierStraight = "straight_line"
)

// renderCacheTTLSeconds bounds how long a live-fetched path is reused before
// the provider is asked again.
const renderCacheTTLSeconds = 3600

// RenderService resolves the path a map layer should draw for a day.
type RenderService struct {
	docs       ports.RouteDocumentRepository
	directions ports.DirectionsProvider
	cache      ports.CacheService
}

// NewRenderService creates a new RenderService.
func NewRenderService(
	docs ports.RouteDocumentRepository,
	directions ports.DirectionsProvider,
	cache ports.CacheService,
) *RenderService {
	return &RenderService{docs: docs, directions: directions, cache: cache}
}

// ResolvedPath is the rendering outcome for one day.
type ResolvedPath struct {
	Day  int         `json:"day"`
	Tier string      `json:"tier"`
	Path domain.Path `json:"path"`
}

// Resolve returns the best available path for a day's route:
// stored geometry first, then a live provider fetch, then straight segments
// through [start, waypoints..., end]. A rest day resolves to an empty path
// without touching the network.
func (s *RenderService) Resolve(ctx context.Context, day int) (*ResolvedPath, error) {
	doc, err := s.docs.GetByDay(ctx, day)
	if err != nil {
		return nil, err
	}

	spec := doc.Spec()
	if spec.RestDay() {
		return &ResolvedPath{Day: day, Tier: TierRestDay, Path: domain.Path{}}, nil
	}

	if stored := doc.StoredPath(); len(stored) >= 2 {
		return &ResolvedPath{Day: day, Tier: TierStored, Path: stored}, nil
	}

	if live := s.liveFetch(ctx, spec); len(live) >= 2 {
		return &ResolvedPath{Day: day, Tier: TierLive, Path: live}, nil
	}

	straight := make(domain.Path, 0, len(spec.Waypoints)+2)
	straight = append(straight, spec.Start)
	straight = append(straight, spec.Waypoints...)
	straight = append(straight, spec.End)

	return &ResolvedPath{
		Day:  day,
		Tier: TierStraight,
		Path: straight,
	}, nil
}

// liveFetch asks the directions provider for the day's path, consulting the
// cache first. Paths are cached polyline-encoded, which is an order of
// magnitude smaller than JSON for dense geometry. Any failure returns nil and
// lets the caller fall through to the next tier.
func (s *RenderService) liveFetch(ctx context.Context, spec domain.RouteSpec) domain.Path {
	key := renderCacheKey(spec.Day)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			if path := decodePath(data); len(path) >= 2 {
				return path
			}
		}
	}

	if s.directions == nil {
		return nil
	}
	path, _, _, err := s.directions.FetchRoute(ctx, spec.PointSequence())
	if err != nil || len(path) < 2 {
		return nil
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, encodePath(path), renderCacheTTLSeconds)
	}
	return path
}

func encodePath(path domain.Path) []byte {
	coords := make([][]float64, len(path))
	for i, pt := range path {
		coords[i] = []float64{pt.Lat, pt.Lng}
	}
	return polyline.EncodeCoords(coords)
}

func decodePath(data []byte) domain.Path {
	coords, rest, err := polyline.DecodeCoords(data)
	if err != nil || len(rest) != 0 {
		return nil
	}
	path := make(domain.Path, 0, len(coords))
	for _, c := range coords {
		pt := domain.GeoPoint{Lat: c[0], Lng: c[1]}
		if !pt.Valid() {
			continue
		}
		path = append(path, pt)
	}
	return path
}
