package ports

import (
	"context"

	"github.com/roadbook/roadbook/internal/core/domain"
)

// RouteDocumentRepository persists per-day route documents. Documents are
// keyed by day index within a single tour collection; writes are
// last-write-wins.
type RouteDocumentRepository interface {
	// GetByDay fetches a day's document, or domain.ErrDocumentNotFound.
	GetByDay(ctx context.Context, day int) (*domain.RouteDocument, error)

	// List returns documents ordered by day index.
	List(ctx context.Context, offset, limit int) ([]domain.RouteDocument, int, error)

	// EnsureDay creates an empty document for the day if none exists and
	// returns the stored document either way.
	EnsureDay(ctx context.Context, day int) (*domain.RouteDocument, error)

	// UpdateSpec upserts the day's endpoints and waypoints.
	UpdateSpec(ctx context.Context, spec domain.RouteSpec) error

	// UpdateGeometry writes geometry and trip metrics in one atomic merge so
	// readers never observe new geometry with stale metrics.
	UpdateGeometry(ctx context.Context, day int, geom *domain.GeneratedGeometry) error

	// UpdateDetails overwrites the free-text fields of a day's document.
	UpdateDetails(ctx context.Context, day int, details domain.DocumentDetails) error

	// UpsertPOI adds or replaces a point of interest by ID.
	UpsertPOI(ctx context.Context, day int, poi domain.POI) error

	// DeletePOI removes a point of interest by ID; removing an absent POI is
	// not an error.
	DeletePOI(ctx context.Context, day int, poiID string) error
}
