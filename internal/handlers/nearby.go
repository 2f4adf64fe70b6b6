package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/nearwork/internal/helpers"
	"github.com/joshua-takyi/nearwork/internal/services"
)

// parseNearbyQuery reads lat, lng and the optional radius from the query
// string. On failure it writes a 400 and returns false.
func parseNearbyQuery(c *gin.Context) (services.NearbyQuery, bool) {
	var q services.NearbyQuery

	lat, ok, err := helpers.ParseFloatParam(c.Query("lat"))
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, helpers.FieldErrorResponse("lat", "lat is required and must be a number"))
		return q, false
	}
	lng, ok, err := helpers.ParseFloatParam(c.Query("lng"))
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, helpers.FieldErrorResponse("lng", "lng is required and must be a number"))
		return q, false
	}
	radius, ok, err := helpers.ParseFloatParam(c.Query("radius"))
	if err != nil || (ok && radius <= 0) {
		c.JSON(http.StatusBadRequest, helpers.FieldErrorResponse("radius", "radius must be a positive number"))
		return q, false
	}

	q.Lat, q.Lng, q.RadiusKm = lat, lng, radius
	return q, true
}

// Health handles GET /api/health.
func Health(ls *services.LocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ls.Health(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "UNAVAILABLE",
				"service": "nearwork-api",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": "nearwork-api",
		})
	}
}
