package usecases_test

import (
	"context"
	"testing"

	"github.com/roadbook/roadbook/internal/core/domain"
	"github.com/roadbook/roadbook/internal/core/usecases"
)

func TestDocumentService_ListDays_ClampLimit(t *testing.T) {
	repo := &mockDocRepo{
		listFn: func(ctx context.Context, offset, limit int) ([]domain.RouteDocument, int, error) {
			if limit != 25 {
				t.Errorf("expected limit clamped to 25, got %d", limit)
			}
			if offset != 0 {
				t.Errorf("expected offset clamped to 0, got %d", offset)
			}
			return []domain.RouteDocument{{Day: 1}}, 1, nil
		},
	}

	svc := usecases.NewDocumentService(repo, nil)
	docs, total, err := svc.ListDays(context.Background(), -3, 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(docs) != 1 {
		t.Errorf("expected 1 document, got %d of %d", len(docs), total)
	}
}

func TestDocumentService_UpdateDetails_CreatesMissingDay(t *testing.T) {
	ensured := 0
	repo := &mockDocRepo{
		ensureDayFn: func(ctx context.Context, day int) (*domain.RouteDocument, error) {
			ensured++
			return &domain.RouteDocument{Day: day}, nil
		},
		getByDayFn: func(ctx context.Context, day int) (*domain.RouteDocument, error) {
			return &domain.RouteDocument{Day: day, Title: "Loreto to Mulege"}, nil
		},
	}
	pub := &mockPublisher{}

	svc := usecases.NewDocumentService(repo, pub)
	doc, err := svc.UpdateDetails(context.Background(), 3, domain.DocumentDetails{Title: "Loreto to Mulege"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ensured != 1 {
		t.Errorf("expected EnsureDay once, got %d", ensured)
	}
	if doc.Title != "Loreto to Mulege" {
		t.Errorf("unexpected title %q", doc.Title)
	}
	if len(pub.updated) != 1 || pub.updated[0] != 3 {
		t.Errorf("expected one updated event for day 3, got %v", pub.updated)
	}
}

func TestDocumentService_UpdateDetails_InvalidDay(t *testing.T) {
	svc := usecases.NewDocumentService(&mockDocRepo{}, nil)
	_, err := svc.UpdateDetails(context.Background(), 0, domain.DocumentDetails{})
	if err == nil || !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDocumentService_AddPOI(t *testing.T) {
	var saved domain.POI
	repo := &mockDocRepo{
		upsertPOIFn: func(ctx context.Context, day int, poi domain.POI) error {
			saved = poi
			return nil
		},
	}

	svc := usecases.NewDocumentService(repo, &mockPublisher{})
	poi, err := svc.AddPOI(context.Background(), 2, domain.POI{
		Name:        "Pemex San Ignacio",
		Coordinates: domain.GeoPoint{Lat: 27.284, Lng: -112.898},
		Category:    domain.POIFuel,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poi.ID == "" {
		t.Error("expected a generated ID")
	}
	if saved.ID != poi.ID {
		t.Errorf("stored ID %q does not match returned %q", saved.ID, poi.ID)
	}
}

func TestDocumentService_AddPOI_DefaultsCategory(t *testing.T) {
	repo := &mockDocRepo{}
	svc := usecases.NewDocumentService(repo, nil)
	poi, err := svc.AddPOI(context.Background(), 2, domain.POI{
		Name:        "Viewpoint",
		Coordinates: domain.GeoPoint{Lat: 27, Lng: -112},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poi.Category != domain.POIOther {
		t.Errorf("expected category defaulted to other, got %s", poi.Category)
	}
}

func TestDocumentService_AddPOI_Invalid(t *testing.T) {
	svc := usecases.NewDocumentService(&mockDocRepo{}, nil)

	cases := []struct {
		name string
		poi  domain.POI
	}{
		{"empty name", domain.POI{Coordinates: domain.GeoPoint{Lat: 27, Lng: -112}}},
		{"zero coordinates", domain.POI{Name: "x"}},
		{"out of bounds", domain.POI{Name: "x", Coordinates: domain.GeoPoint{Lat: 95, Lng: 0}}},
		{"unknown category", domain.POI{Name: "x", Coordinates: domain.GeoPoint{Lat: 27, Lng: -112}, Category: "casino"}},
	}
	for _, tc := range cases {
		if _, err := svc.AddPOI(context.Background(), 2, tc.poi); err == nil || !domain.IsValidation(err) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestDocumentService_RemovePOI(t *testing.T) {
	var removed string
	repo := &mockDocRepo{
		deletePOIFn: func(ctx context.Context, day int, poiID string) error {
			removed = poiID
			return nil
		},
	}

	svc := usecases.NewDocumentService(repo, &mockPublisher{})
	if err := svc.RemovePOI(context.Background(), 2, "poi-abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != "poi-abc" {
		t.Errorf("expected poi-abc removed, got %q", removed)
	}
}

func TestDocumentService_RemovePOI_EmptyID(t *testing.T) {
	svc := usecases.NewDocumentService(&mockDocRepo{}, nil)
	if err := svc.RemovePOI(context.Background(), 2, ""); err == nil || !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
