package ports

import (
	"context"

	"github.com/roadbook/roadbook/internal/core/domain"
)

// DirectionsProvider fetches a road-following route through an ordered point
// sequence from an external routing service.
type DirectionsProvider interface {
	// FetchRoute returns the route's dense path plus raw distance in meters
	// and duration in seconds. Failures map to the domain sentinel errors:
	// ErrInvalidRequest, ErrNoRouteFound, ErrProviderUnavailable.
	FetchRoute(ctx context.Context, points []domain.GeoPoint) (domain.Path, float64, float64, error)
}

// EventPublisher publishes route lifecycle events to a message broker.
type EventPublisher interface {
	PublishRouteGenerated(ctx context.Context, day int, geom *domain.GeneratedGeometry) error
	PublishDocumentUpdated(ctx context.Context, day int) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
