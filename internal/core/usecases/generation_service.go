package usecases

import (
	"context"
	"fmt"

	"github.com/roadbook/roadbook/internal/core/domain"
	"github.com/roadbook/roadbook/internal/core/ports"
	"github.com/roadbook/roadbook/internal/pkg/geospatial"
)

// GenerationService runs the route generation pipeline for one tour day:
// validate the editor's spec, fetch a road-following route, simplify it, and
// persist geometry plus trip metrics as a single write.
type GenerationService struct {
	docs       ports.RouteDocumentRepository
	directions ports.DirectionsProvider
	cache      ports.CacheService
	publisher  ports.EventPublisher
	tolerance  float64
	maxPoints  int
}

// NewGenerationService creates a new GenerationService. tolerance is the
// simplification tolerance in degrees; maxPoints bounds the stored geometry.
func NewGenerationService(
	docs ports.RouteDocumentRepository,
	directions ports.DirectionsProvider,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	tolerance float64,
	maxPoints int,
) *GenerationService {
	if tolerance <= 0 {
		tolerance = geospatial.DefaultToleranceDegrees
	}
	return &GenerationService{
		docs:       docs,
		directions: directions,
		cache:      cache,
		publisher:  publisher,
		tolerance:  tolerance,
		maxPoints:  maxPoints,
	}
}

// GenerateDay loads the stored endpoints for a day and regenerates its route.
func (s *GenerationService) GenerateDay(ctx context.Context, day int) (*domain.GeneratedGeometry, error) {
	doc, err := s.docs.GetByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, doc.Spec())
}

// Generate runs the full pipeline for the given spec. On success the day's
// document holds the new geometry and metrics; on any failure before the
// write the document is untouched. A storage failure after a successful
// provider call is reported as domain.ErrGeometryNotSaved.
func (s *GenerationService) Generate(ctx context.Context, spec domain.RouteSpec) (*domain.GeneratedGeometry, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var geom *domain.GeneratedGeometry
	if spec.RestDay() {
		// The group stays put: no route line, no provider call.
		geom = &domain.GeneratedGeometry{Path: domain.Path{}, EstimatedTime: "0m"}
	} else {
		dense, meters, seconds, err := s.directions.FetchRoute(ctx, spec.PointSequence())
		if err != nil {
			return nil, err
		}

		simplified := geospatial.SimplifyMax(dense, s.tolerance, s.maxPoints)
		miles, estimated := domain.TripMetrics(meters, seconds)

		geom = &domain.GeneratedGeometry{
			Path:             simplified,
			DistanceMiles:    miles,
			EstimatedTime:    estimated,
			SourcePointCount: len(dense),
		}
	}

	if err := s.docs.UpdateGeometry(ctx, spec.Day, geom); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeometryNotSaved, err)
	}

	// Stored geometry changed; rendered paths derived from the old document
	// must not be served again.
	if s.cache != nil {
		_ = s.cache.Delete(ctx, renderCacheKey(spec.Day))
	}
	if s.publisher != nil {
		_ = s.publisher.PublishRouteGenerated(ctx, spec.Day, geom)
	}

	return geom, nil
}

func renderCacheKey(day int) string {
	return fmt.Sprintf("render:day:%d", day)
}
