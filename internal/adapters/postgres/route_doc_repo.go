package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/roadbook/roadbook/internal/core/domain"
)

// RouteDocRepo implements ports.RouteDocumentRepository on a single JSONB
// column. Partial updates go through `doc || patch` merges, which Postgres
// applies atomically per statement, so geometry and trip metrics can never be
// observed half-written.
type RouteDocRepo struct {
	db *DB
}

func NewRouteDocRepo(db *DB) *RouteDocRepo { return &RouteDocRepo{db: db} }

func (r *RouteDocRepo) GetByDay(ctx context.Context, day int) (*domain.RouteDocument, error) {
	var raw []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT doc FROM day_routes WHERE day = $1
	`, day).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	var doc domain.RouteDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode day %d: %w", day, err)
	}
	return &doc, nil
}

func (r *RouteDocRepo) List(ctx context.Context, offset, limit int) ([]domain.RouteDocument, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM day_routes`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT doc FROM day_routes ORDER BY day OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []domain.RouteDocument
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, 0, err
		}
		var doc domain.RouteDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, 0, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, total, rows.Err()
}

func (r *RouteDocRepo) EnsureDay(ctx context.Context, day int) (*domain.RouteDocument, error) {
	empty, err := json.Marshal(domain.RouteDocument{Day: day, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO day_routes (day, doc) VALUES ($1, $2)
		ON CONFLICT (day) DO NOTHING
	`, day, empty)
	if err != nil {
		return nil, err
	}
	return r.GetByDay(ctx, day)
}

func (r *RouteDocRepo) UpdateSpec(ctx context.Context, spec domain.RouteSpec) error {
	waypoints := spec.Waypoints
	if waypoints == nil {
		waypoints = []domain.GeoPoint{}
	}
	return r.merge(ctx, spec.Day, map[string]any{
		"day":              spec.Day,
		"startCoordinates": spec.Start,
		"endCoordinates":   spec.End,
		"waypoints":        waypoints,
		"updatedAt":        time.Now().UTC(),
	})
}

func (r *RouteDocRepo) UpdateGeometry(ctx context.Context, day int, geom *domain.GeneratedGeometry) error {
	return r.merge(ctx, day, map[string]any{
		"day":               day,
		"routeGeometry":     domain.NewLineString(geom.Path),
		"estimatedDistance": geom.DistanceMiles,
		"estimatedTime":     geom.EstimatedTime,
		"sourcePointCount":  geom.SourcePointCount,
		"updatedAt":         time.Now().UTC(),
	})
}

func (r *RouteDocRepo) UpdateDetails(ctx context.Context, day int, details domain.DocumentDetails) error {
	return r.merge(ctx, day, map[string]any{
		"day":         day,
		"title":       details.Title,
		"description": details.Description,
		"rideSummary": details.RideSummary,
		"updatedAt":   time.Now().UTC(),
	})
}

// merge upserts the day row and folds the patch into the stored document in
// one statement. Concurrent patches to different keys both land; matching
// keys are last-write-wins.
func (r *RouteDocRepo) merge(ctx context.Context, day int, patch map[string]any) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO day_routes (day, doc) VALUES ($1, $2)
		ON CONFLICT (day) DO UPDATE
		SET doc = day_routes.doc || EXCLUDED.doc, updated_at = now()
	`, day, raw)
	return err
}

func (r *RouteDocRepo) UpsertPOI(ctx context.Context, day int, poi domain.POI) error {
	raw, err := json.Marshal(poi)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE day_routes
		SET doc = jsonb_set(
			doc,
			'{pois}',
			COALESCE(
				(SELECT jsonb_agg(p)
				 FROM jsonb_array_elements(COALESCE(doc->'pois', '[]'::jsonb)) p
				 WHERE p->>'id' <> $2),
				'[]'::jsonb
			) || $3::jsonb
		), updated_at = now()
		WHERE day = $1
	`, day, poi.ID, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *RouteDocRepo) DeletePOI(ctx context.Context, day int, poiID string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE day_routes
		SET doc = jsonb_set(
			doc,
			'{pois}',
			COALESCE(
				(SELECT jsonb_agg(p)
				 FROM jsonb_array_elements(COALESCE(doc->'pois', '[]'::jsonb)) p
				 WHERE p->>'id' <> $2),
				'[]'::jsonb
			)
		), updated_at = now()
		WHERE day = $1
	`, day, poiID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
