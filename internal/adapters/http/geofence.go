package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
)

const maxNearbyRadius = 10000

// queryCoord parses a required float query parameter within [-limit, limit].
func queryCoord(c *fiber.Ctx, name string, limit float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < -limit || v > limit {
		return 0, false
	}
	return v, true
}

// ListAreasHandler returns every monitored area.
func ListAreasHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		areas := deps.Geofence.Areas()
		if areas == nil {
			areas = []domain.MonitoredArea{}
		}
		return c.JSON(areas)
	}
}

// NearbyAreasHandler returns the areas within radius meters of lat/lon,
// nearest first.
func NearbyAreasHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, okLat := queryCoord(c, "lat", 90)
		lon, okLon := queryCoord(c, "lon", 180)
		if !okLat || !okLon {
			return errBadRequest(c, "lat and lon are required and must be valid coordinates")
		}

		def := deps.NearbyRadius
		if def <= 0 {
			def = usecases.DefaultNearbyRadius
		}
		radius := c.QueryFloat("radius", def)
		if radius <= 0 || radius > maxNearbyRadius {
			return errBadRequest(c, "radius must be between 1 and 10000 meters")
		}

		areas := deps.Geofence.NearbyAreas(domain.Position{Latitude: lat, Longitude: lon}, radius)
		if areas == nil {
			areas = []domain.NearbyArea{}
		}
		return c.JSON(areas)
	}
}

// PostPositionHandler evaluates one location sample for the caller. A sample
// carrying an error, or no coordinates, is skipped.
func PostPositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sample domain.PositionSample
		if err := c.BodyParser(&sample); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if sample.Latitude != nil && (*sample.Latitude < -90 || *sample.Latitude > 90) {
			return errBadRequest(c, "latitude must be between -90 and 90")
		}
		if sample.Longitude != nil && (*sample.Longitude < -180 || *sample.Longitude > 180) {
			return errBadRequest(c, "longitude must be between -180 and 180")
		}

		res, err := deps.Geofence.ProcessSample(c.UserContext(), userID(c), sample)
		if err != nil {
			return respondError(c, err)
		}
		if res.Events == nil {
			res.Events = []domain.GeofenceEvent{}
		}
		if res.ActiveAlerts == nil {
			res.ActiveAlerts = []domain.GeofenceAlert{}
		}
		return c.JSON(res)
	}
}

// ActiveGeofenceAlertsHandler returns the areas the caller is currently in.
func ActiveGeofenceAlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alerts := deps.Geofence.ActiveAlerts(userID(c))
		if alerts == nil {
			alerts = []domain.GeofenceAlert{}
		}
		return c.JSON(alerts)
	}
}

// EndGeofenceSessionHandler drops the caller's containment state.
func EndGeofenceSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Geofence.Forget(userID(c))
		return c.SendStatus(fiber.StatusNoContent)
	}
}
