package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/roadbook/roadbook/internal/core/domain"
	"github.com/roadbook/roadbook/internal/pkg/metrics"
)

var tracer = otel.Tracer("roadbook/http")

func dayParam(c *fiber.Ctx) (int, error) {
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil || day < 1 {
		return 0, errBadRequest(c, "day must be a positive integer")
	}
	return day, nil
}

// ListDaysHandler returns the tour's day documents, ordered by day index.
func ListDaysHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 25)

		docs, total, err := deps.Documents.ListDays(c.UserContext(), offset, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: docs, Pagination: pg})
	}
}

// GetDayHandler returns a single day's route document.
func GetDayHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := dayParam(c)
		if err != nil {
			return err
		}

		doc, err := deps.Documents.GetDay(c.UserContext(), day)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDayDetailsHandler overwrites the day's free-text fields, creating the
// document on first reference.
func UpdateDayDetailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := dayParam(c)
		if err != nil {
			return err
		}

		var details domain.DocumentDetails
		if err := c.BodyParser(&details); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		doc, err := deps.Documents.UpdateDetails(c.UserContext(), day, details)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(doc)
	}
}

// generateRequest is the optional body of the generate endpoint. When present
// it overwrites the day's endpoints before generation; when absent the stored
// endpoints are used.
type generateRequest struct {
	Start     *domain.GeoPoint  `json:"start"`
	End       *domain.GeoPoint  `json:"end"`
	Waypoints []domain.GeoPoint `json:"waypoints"`
}

// GenerateRouteHandler runs the generation pipeline for a day.
func GenerateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := dayParam(c)
		if err != nil {
			return err
		}

		ctx, span := tracer.Start(c.UserContext(), "route.generate")
		span.SetAttributes(attribute.Int("day", day))
		defer span.End()

		var geom *domain.GeneratedGeometry
		if len(c.Body()) > 0 {
			var req generateRequest
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
			if req.Start == nil || req.End == nil {
				return errBadRequest(c, "start and end are required when a body is given")
			}

			spec := domain.RouteSpec{
				Day:       day,
				Start:     *req.Start,
				End:       *req.End,
				Waypoints: req.Waypoints,
			}
			if err := deps.Documents.SetRouteSpec(ctx, spec); err != nil {
				return domainError(c, err)
			}
			geom, err = deps.Generation.Generate(ctx, spec)
		} else {
			geom, err = deps.Generation.GenerateDay(ctx, day)
		}

		if err != nil {
			span.RecordError(err)
			metrics.GenerationsTotal.WithLabelValues(generationOutcome(err)).Inc()
			return domainError(c, err)
		}

		metrics.GenerationsTotal.WithLabelValues("ok").Inc()
		metrics.GenerationPoints.Observe(float64(len(geom.Path)))
		return c.JSON(geom)
	}
}

func generationOutcome(err error) string {
	switch {
	case domain.IsValidation(err):
		return "invalid_spec"
	case errors.Is(err, domain.ErrNoRouteFound):
		return "no_route"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, domain.ErrGeometryNotSaved):
		return "not_saved"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return "not_found"
	}
	return "error"
}

// GetGeometryHandler resolves the best available path for a day's map layer.
func GetGeometryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := dayParam(c)
		if err != nil {
			return err
		}

		ctx, span := tracer.Start(c.UserContext(), "route.resolve")
		span.SetAttributes(attribute.Int("day", day))
		defer span.End()

		resolved, err := deps.Render.Resolve(ctx, day)
		if err != nil {
			span.RecordError(err)
			return domainError(c, err)
		}

		metrics.ResolvedTiers.WithLabelValues(resolved.Tier).Inc()
		return c.JSON(resolved)
	}
}

// AddPOIHandler attaches a point of interest to a day.
func AddPOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := dayParam(c)
		if err != nil {
			return err
		}

		var poi domain.POI
		if err := c.BodyParser(&poi); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		saved, err := deps.Documents.AddPOI(c.UserContext(), day, poi)
		if err != nil {
			return domainError(c, err)
		}
		return c.Status(201).JSON(saved)
	}
}

// DeletePOIHandler removes a point of interest from a day.
func DeletePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := dayParam(c)
		if err != nil {
			return err
		}

		id := c.Params("id")
		if err := deps.Documents.RemovePOI(c.UserContext(), day, id); err != nil {
			return domainError(c, err)
		}
		return c.SendStatus(204)
	}
}

// TourStats holds aggregate figures over the whole tour.
type TourStats struct {
	Days          int    `json:"days"`
	DaysWithRoute int    `json:"days_with_route"`
	TotalMiles    int    `json:"total_miles"`
	LastUpdate    string `json:"last_update,omitempty"`
}

// TourStatsHandler returns aggregate figures from the day documents.
func TourStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats TourStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				count(*),
				count(*) FILTER (WHERE jsonb_array_length(COALESCE(doc->'routeGeometry'->'coordinates', '[]'::jsonb)) >= 2),
				COALESCE(sum((doc->>'estimatedDistance')::int), 0),
				COALESCE(max(updated_at)::text, '')
			FROM day_routes
		`)
		if err := row.Scan(&stats.Days, &stats.DaysWithRoute, &stats.TotalMiles, &stats.LastUpdate); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}
