package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
	"github.com/samirrijal/digitalshield/internal/pkg/auth"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	areaFields := graphql.Fields{
		"id":            &graphql.Field{Type: graphql.String},
		"name":          &graphql.Field{Type: graphql.String},
		"latitude":      &graphql.Field{Type: graphql.Float},
		"longitude":     &graphql.Field{Type: graphql.Float},
		"radius_meters": &graphql.Field{Type: graphql.Float},
		"severity":      &graphql.Field{Type: graphql.String},
		"category":      &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
	}

	areaType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "MonitoredArea",
		Fields: areaFields,
	})

	nearbyFields := graphql.Fields{
		"distance_meters": &graphql.Field{Type: graphql.Int},
	}
	for k, v := range areaFields {
		nearbyFields[k] = &graphql.Field{Type: v.Type}
	}
	nearbyAreaType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "NearbyArea",
		Fields: nearbyFields,
	})

	resourceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Resource",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"title":            &graphql.Field{Type: graphql.String},
			"description":      &graphql.Field{Type: graphql.String},
			"category":         &graphql.Field{Type: graphql.String},
			"type":             &graphql.Field{Type: graphql.String},
			"difficulty_level": &graphql.Field{Type: graphql.String},
			"read_time":        &graphql.Field{Type: graphql.String},
			"url":              &graphql.Field{Type: graphql.String},
			"tags":             &graphql.Field{Type: graphql.NewList(graphql.String)},
			"is_featured":      &graphql.Field{Type: graphql.Boolean},
		},
	})

	crimeAlertType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CrimeAlert",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"type":        &graphql.Field{Type: graphql.String},
			"severity":    &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"timestamp":   &graphql.Field{Type: graphql.DateTime},
			"distance":    &graphql.Field{Type: graphql.String},
		},
	})

	crimeStatsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CrimeStats",
		Fields: graphql.Fields{
			"totalIncidents": &graphql.Field{Type: graphql.Int},
			"riskLevel":      &graphql.Field{Type: graphql.String},
			"trending":       &graphql.Field{Type: graphql.String},
			"commonCrimes":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	crimeFeedType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CrimeFeed",
		Fields: graphql.Fields{
			"alerts": &graphql.Field{Type: graphql.NewList(crimeAlertType)},
			"stats":  &graphql.Field{Type: crimeStatsType},
		},
	})

	linkDetailsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LinkDetails",
		Fields: graphql.Fields{
			"reputation": &graphql.Field{Type: graphql.Int},
			"category":   &graphql.Field{Type: graphql.String},
			"lastSeen":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	linkCheckType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LinkCheck",
		Fields: graphql.Fields{
			"url":       &graphql.Field{Type: graphql.String},
			"status":    &graphql.Field{Type: graphql.String},
			"threats":   &graphql.Field{Type: graphql.NewList(graphql.String)},
			"source":    &graphql.Field{Type: graphql.String},
			"timestamp": &graphql.Field{Type: graphql.DateTime},
			"details":   &graphql.Field{Type: linkDetailsType},
		},
	})

	chatReplyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ChatReply",
		Fields: graphql.Fields{
			"session_id": &graphql.Field{Type: graphql.String},
			"topic":      &graphql.Field{Type: graphql.String},
			"message":    &graphql.Field{Type: graphql.String},
			"timestamp":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"areas": &graphql.Field{
				Type:        graphql.NewList(areaType),
				Description: "List all monitored areas",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geofence.Areas(), nil
				},
			},
			"nearbyAreas": &graphql.Field{
				Type:        graphql.NewList(nearbyAreaType),
				Description: "Monitored areas near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: float64(usecases.DefaultNearbyRadius)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pos := domain.Position{
						Latitude:  p.Args["lat"].(float64),
						Longitude: p.Args["lon"].(float64),
					}
					radius := p.Args["radius"].(float64)
					if radius > maxNearbyRadius {
						radius = maxNearbyRadius
					}
					// graphql-go resolves fields by json tag, which the
					// embedded MonitoredArea hides; flatten it.
					var out []map[string]interface{}
					for _, a := range deps.Geofence.NearbyAreas(pos, radius) {
						out = append(out, map[string]interface{}{
							"id":              a.ID,
							"name":            a.Name,
							"latitude":        a.Latitude,
							"longitude":       a.Longitude,
							"radius_meters":   a.RadiusMeters,
							"severity":        string(a.Severity),
							"category":        a.Category,
							"description":     a.Description,
							"distance_meters": a.DistanceMeters,
						})
					}
					return out, nil
				},
			},
			"resources": &graphql.Field{
				Type:        graphql.NewList(resourceType),
				Description: "Learning resources, featured first",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"featured": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Resources.List(p.Context, domain.ResourceFilter{
						Category:     p.Args["category"].(string),
						FeaturedOnly: p.Args["featured"].(bool),
					})
				},
			},
			"crimeFeed": &graphql.Field{
				Type:        crimeFeedType,
				Description: "Recent crime alerts and area statistics",
				Args: graphql.FieldConfigArgument{
					"min_severity": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Dashboard.CrimeFeed(p.Context, domain.Severity(p.Args["min_severity"].(string)))
				},
			},
			"checkLink": &graphql.Field{
				Type:        linkCheckType,
				Description: "Classify a URL as safe or dangerous",
				Args: graphql.FieldConfigArgument{
					"url": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := auth.FromContext(p.Context)
					return deps.Links.Check(p.Context, id.UserID, p.Args["url"].(string))
				},
			},
			"chatReply": &graphql.Field{
				Type:        chatReplyType,
				Description: "Ask the safety assistant a question",
				Args: graphql.FieldConfigArgument{
					"message":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"session_id": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := auth.FromContext(p.Context)
					return deps.Chat.Reply(p.Context, p.Args["session_id"].(string), id.UserID, p.Args["message"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint. A bearer token is optional and
// only attributes link checks and chat turns to the caller.
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
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
