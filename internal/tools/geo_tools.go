package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/contentgeo-mcp/internal/geo"
)

// Reference coordinate probed by health_check (Kyiv city centre).
const (
	probeLat = "50.4501"
	probeLon = "30.5234"
)

// RegisterGeoTools registers every ContentGeo tool on b.
func RegisterGeoTools(b *Builder, c *geo.Client) *Builder {
	return b.
		Register(healthCheckTool(c)).
		Register(idTool(c, "landmarkinfo", geo.PageLandmarkInfo,
			"Get details of one or more landmarks by ID.",
			"Landmark ID, or several IDs separated by commas")).
		Register(coordinateTool(c, "landmarks", geo.PageLandmarks,
			"List landmarks near a coordinate.", false)).
		Register(coordinateTool(c, "restaurants", geo.PageRestaurants,
			"List restaurants near a coordinate.", false)).
		Register(idTool(c, "restaurantinfo", geo.PageRestaurantInfo,
			"Get details of one or more restaurants by ID.",
			"Restaurant ID, or several IDs separated by commas")).
		Register(coordinateTool(c, "geo_objects", geo.PageGeoObjects,
			"List geo objects near a coordinate, optionally within a distance.", true)).
		Register(idTool(c, "geo_object_info", geo.PageGeoObjectInfo,
			"Get details of one or more geo objects by ID.",
			"Geo object ID, or several IDs separated by commas")).
		Register(locationSearchTool(c))
}

func idTool(c *geo.Client, name, page, description, idsDescription string) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Params: []Param{
			{Name: "ids", Type: TypeString, Required: true, Description: idsDescription},
		},
		Handler: func(ctx context.Context, args Args) Result {
			ids := args.String("ids")
			echo := func() map[string]any { return map[string]any{"ids": ids} }

			if strings.TrimSpace(ids) == "" {
				return Fail(NewError(KindMissingParameter, "ids parameter is required", echo()))
			}

			body, err := c.Fetch(ctx, page, geo.Param{Key: "ids", Value: ids})
			if err != nil {
				return Fail(upstreamError(err, echo()))
			}
			return OK(body)
		},
	}
}

func coordinateTool(c *geo.Client, name, page, description string, withDistance bool) Tool {
	params := []Param{
		{Name: "lat", Type: TypeFloat, Required: true, Description: "Latitude in decimal degrees (-90 to 90)"},
		{Name: "lon", Type: TypeFloat, Required: true, Description: "Longitude in decimal degrees (-180 to 180)"},
	}
	if withDistance {
		params = append(params, Param{Name: "distance", Type: TypeFloat, Description: "Search distance, passed through to the API unchanged"})
	}

	return Tool{
		Name:        name,
		Description: description,
		Params:      params,
		Handler: func(ctx context.Context, args Args) Result {
			lat, _ := args.Float("lat")
			lon, _ := args.Float("lon")
			distance, hasDistance := args.Float("distance")

			echo := func() map[string]any {
				coords := map[string]any{"lat": lat, "lon": lon}
				if withDistance && hasDistance {
					coords["distance"] = distance
				}
				return map[string]any{"features": []any{}, "coordinates": coords}
			}

			switch {
			case lat < -90 || lat > 90:
				return Fail(NewError(KindInvalidParameter, fmt.Sprintf("lat must be between -90 and 90, got %v", lat), echo()))
			case lon < -180 || lon > 180:
				return Fail(NewError(KindInvalidParameter, fmt.Sprintf("lon must be between -180 and 180, got %v", lon), echo()))
			case hasDistance && distance < 0:
				return Fail(NewError(KindInvalidParameter, fmt.Sprintf("distance must not be negative, got %v", distance), echo()))
			}

			query := []geo.Param{
				{Key: "lat", Value: args.String("lat")},
				{Key: "lon", Value: args.String("lon")},
			}
			if withDistance && hasDistance {
				query = append(query, geo.Param{Key: "distance", Value: args.String("distance")})
			}

			body, err := c.Fetch(ctx, page, query...)
			if err != nil {
				return Fail(upstreamError(err, echo()))
			}
			return OK(body)
		},
	}
}

func locationSearchTool(c *geo.Client) Tool {
	return Tool{
		Name:        "location_search",
		Description: "Free-text search for locations by name or address.",
		Params: []Param{
			{Name: "query", Type: TypeString, Required: true, Description: "Search text, e.g. a city, street or place name"},
		},
		Handler: func(ctx context.Context, args Args) Result {
			query := args.String("query")
			echo := func() map[string]any { return map[string]any{"query": query} }

			if strings.TrimSpace(query) == "" {
				return Fail(NewError(KindMissingParameter, "query parameter is required", echo()))
			}

			body, err := c.Fetch(ctx, geo.PageLocationSearch, geo.Param{Key: "query", Value: query})
			if err != nil {
				return Fail(upstreamError(err, echo()))
			}
			return OK(body)
		},
	}
}

// healthCheckTool probes the upstream with a fixed landmarks request. An
// unreachable upstream is reported as status "unhealthy", never as a failure.
func healthCheckTool(c *geo.Client) Tool {
	return Tool{
		Name:        "health_check",
		Description: "Check whether the ContentGeo API is reachable and whether an API key is configured.",
		Handler: func(ctx context.Context, _ Args) Result {
			start := time.Now()
			_, err := c.Fetch(ctx, geo.PageLandmarks,
				geo.Param{Key: "lat", Value: probeLat},
				geo.Param{Key: "lon", Value: probeLon},
			)

			status := map[string]any{
				"status":             "healthy",
				"api_key_configured": c.HasAPIKey(),
				"upstream":           c.BaseURL(),
				"latency_ms":         time.Since(start).Milliseconds(),
			}
			if err != nil {
				status["status"] = "unhealthy"
				status["detail"] = err.Error()
			}
			return OK(status)
		},
	}
}

// upstreamError classifies a geo.Client failure and attaches the echo fields.
func upstreamError(err error, fields map[string]any) *Error {
	kind := KindUpstreamUnavailable

	var statusErr *geo.StatusError
	switch {
	case errors.As(err, &statusErr):
		kind = KindUpstreamError
		fields["status"] = statusErr.StatusCode
	case errors.Is(err, geo.ErrMalformed):
		kind = KindMalformedUpstreamResponse
	}

	e := NewError(kind, err.Error(), fields)
	e.Cause = err
	return e
}
