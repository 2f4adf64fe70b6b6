package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/nearwork/internal/geo"
	"github.com/joshua-takyi/nearwork/internal/helpers"
	"github.com/joshua-takyi/nearwork/internal/models"
	"github.com/joshua-takyi/nearwork/internal/services"
)

type joinRequest struct {
	ID   string   `json:"id" binding:"required,notblank"`
	Name string   `json:"name" binding:"required,notblank"`
	Role string   `json:"role" binding:"required,oneof=worker employer"`
	Lat  *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng  *float64 `json:"lng" binding:"omitempty,min=-180,max=180"`
}

type nearbyParticipant struct {
	models.Participant
	Distance float64 `json:"distance"`
}

// JoinParticipant handles POST /api/users: register or refresh a participant.
func JoinParticipant(ls *services.LocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req joinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		p := &models.Participant{
			ID:   req.ID,
			Name: req.Name,
			Role: models.Role(req.Role),
			Lat:  req.Lat,
			Lng:  req.Lng,
		}
		if err := ls.Join(c.Request.Context(), p); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "participant saved"))
	}
}

// NearbyParticipants handles GET /api/workers/nearby and
// GET /api/employers/nearby.
func NearbyParticipants(ls *services.LocationService, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := parseNearbyQuery(c)
		if !ok {
			return
		}

		matches, err := ls.NearbyParticipants(c.Request.Context(), role, q)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, toNearbyParticipants(matches))
	}
}

func toNearbyParticipants(matches []geo.Match[models.Participant]) []nearbyParticipant {
	out := make([]nearbyParticipant, len(matches))
	for i, m := range matches {
		out[i] = nearbyParticipant{Participant: m.Candidate, Distance: m.DistanceKm}
	}
	return out
}
