package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/roadbook/roadbook/internal/core/domain"
	"github.com/roadbook/roadbook/internal/core/ports"
)

// DocumentService handles route-document reads and editor updates outside the
// generation pipeline.
type DocumentService struct {
	docs      ports.RouteDocumentRepository
	publisher ports.EventPublisher
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(docs ports.RouteDocumentRepository, publisher ports.EventPublisher) *DocumentService {
	return &DocumentService{docs: docs, publisher: publisher}
}

// GetDay returns a single day's document.
func (s *DocumentService) GetDay(ctx context.Context, day int) (*domain.RouteDocument, error) {
	if day < 1 {
		return nil, &domain.ValidationError{Field: "day", Reason: "must be a positive day index"}
	}
	return s.docs.GetByDay(ctx, day)
}

// ListDays returns documents ordered by day index plus the total count.
func (s *DocumentService) ListDays(ctx context.Context, offset, limit int) ([]domain.RouteDocument, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	return s.docs.List(ctx, offset, limit)
}

// UpdateDetails overwrites the day's free-text fields, creating the document
// if the day is referenced for the first time.
func (s *DocumentService) UpdateDetails(ctx context.Context, day int, details domain.DocumentDetails) (*domain.RouteDocument, error) {
	if day < 1 {
		return nil, &domain.ValidationError{Field: "day", Reason: "must be a positive day index"}
	}

	if _, err := s.docs.EnsureDay(ctx, day); err != nil {
		return nil, fmt.Errorf("ensure day %d: %w", day, err)
	}
	if err := s.docs.UpdateDetails(ctx, day, details); err != nil {
		return nil, fmt.Errorf("update details: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.PublishDocumentUpdated(ctx, day)
	}
	return s.docs.GetByDay(ctx, day)
}

// SetRouteSpec overwrites the day's endpoints and waypoints, creating the
// document on first reference. The stored geometry is left in place until the
// next generation run; readers can tell it is stale from updatedAt.
func (s *DocumentService) SetRouteSpec(ctx context.Context, spec domain.RouteSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if err := s.docs.UpdateSpec(ctx, spec); err != nil {
		return fmt.Errorf("update spec: %w", err)
	}
	if s.publisher != nil {
		_ = s.publisher.PublishDocumentUpdated(ctx, spec.Day)
	}
	return nil
}

// AddPOI validates and attaches a point of interest to a day. A missing ID is
// generated; an existing ID replaces the stored POI.
func (s *DocumentService) AddPOI(ctx context.Context, day int, poi domain.POI) (*domain.POI, error) {
	if day < 1 {
		return nil, &domain.ValidationError{Field: "day", Reason: "must be a positive day index"}
	}
	if poi.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "name must not be empty"}
	}
	if !poi.Coordinates.Valid() || poi.Coordinates.IsZero() {
		return nil, &domain.ValidationError{Field: "coordinates", Reason: "not a usable coordinate"}
	}
	if poi.Category == "" {
		poi.Category = domain.POIOther
	}
	if !domain.KnownPOICategory(poi.Category) {
		return nil, &domain.ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", poi.Category)}
	}

	if poi.ID == "" {
		id, err := generatePOIID()
		if err != nil {
			return nil, fmt.Errorf("generate poi id: %w", err)
		}
		poi.ID = id
	}

	if _, err := s.docs.EnsureDay(ctx, day); err != nil {
		return nil, fmt.Errorf("ensure day %d: %w", day, err)
	}
	if err := s.docs.UpsertPOI(ctx, day, poi); err != nil {
		return nil, fmt.Errorf("upsert poi: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.PublishDocumentUpdated(ctx, day)
	}
	return &poi, nil
}

// RemovePOI detaches a point of interest from a day. Removing an absent POI
// succeeds.
func (s *DocumentService) RemovePOI(ctx context.Context, day int, poiID string) error {
	if day < 1 {
		return &domain.ValidationError{Field: "day", Reason: "must be a positive day index"}
	}
	if poiID == "" {
		return &domain.ValidationError{Field: "id", Reason: "poi id must not be empty"}
	}

	if err := s.docs.DeletePOI(ctx, day, poiID); err != nil {
		return fmt.Errorf("delete poi: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.PublishDocumentUpdated(ctx, day)
	}
	return nil
}

func generatePOIID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "poi-" + hex.EncodeToString(b), nil
}
