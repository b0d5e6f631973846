package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	lineStringType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LineString",
		Fields: graphql.Fields{
			"type":        &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: graphql.NewList(geoPointType)},
		},
	})

	poiType := graphql.NewObject(graphql.ObjectConfig{
		Name: "POI",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: geoPointType},
			"category":    &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	dayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Day",
		Fields: graphql.Fields{
			"day":               &graphql.Field{Type: graphql.Int},
			"title":             &graphql.Field{Type: graphql.String},
			"description":       &graphql.Field{Type: graphql.String},
			"rideSummary":       &graphql.Field{Type: graphql.String},
			"startCoordinates":  &graphql.Field{Type: geoPointType},
			"endCoordinates":    &graphql.Field{Type: geoPointType},
			"waypoints":         &graphql.Field{Type: graphql.NewList(geoPointType)},
			"routeGeometry":     &graphql.Field{Type: lineStringType},
			"estimatedDistance": &graphql.Field{Type: graphql.Int},
			"estimatedTime":     &graphql.Field{Type: graphql.String},
			"sourcePointCount":  &graphql.Field{Type: graphql.Int},
			"pois":              &graphql.Field{Type: graphql.NewList(poiType)},
		},
	})

	resolvedPathType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ResolvedPath",
		Fields: graphql.Fields{
			"day":  &graphql.Field{Type: graphql.Int},
			"tier": &graphql.Field{Type: graphql.String},
			"path": &graphql.Field{Type: graphql.NewList(geoPointType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"days": &graphql.Field{
				Type:        graphql.NewList(dayType),
				Description: "List the tour's day documents",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 25},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset := p.Args["offset"].(int)
					limit := p.Args["limit"].(int)
					docs, _, err := deps.Documents.ListDays(p.Context, offset, limit)
					return docs, err
				},
			},
			"day": &graphql.Field{
				Type:        dayType,
				Description: "Get a day's route document",
				Args: graphql.FieldConfigArgument{
					"day": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					day := p.Args["day"].(int)
					return deps.Documents.GetDay(p.Context, day)
				},
			},
			"geometry": &graphql.Field{
				Type:        resolvedPathType,
				Description: "Resolve the best available path for a day's map layer",
				Args: graphql.FieldConfigArgument{
					"day": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					day := p.Args["day"].(int)
					return deps.Render.Resolve(p.Context, day)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
