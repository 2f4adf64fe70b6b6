package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/nearwork/internal/geo"
	"github.com/joshua-takyi/nearwork/internal/helpers"
	"github.com/joshua-takyi/nearwork/internal/models"
	"github.com/joshua-takyi/nearwork/internal/services"
)

type createListingRequest struct {
	ID          string   `json:"id" binding:"required,notblank"`
	UserID      string   `json:"userId" binding:"required,notblank"`
	Title       string   `json:"title" binding:"required,notblank"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Lat         *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lng         *float64 `json:"lng" binding:"required,min=-180,max=180"`
}

type nearbyListing struct {
	models.ListingWithOwner
	Distance float64 `json:"distance"`
}

// CreateListing handles POST /api/posts. Listings are append-only; reusing an
// id is a conflict.
func CreateListing(ls *services.LocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createListingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		l := &models.Listing{
			ID:          req.ID,
			OwnerID:     req.UserID,
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Lat:         *req.Lat,
			Lng:         *req.Lng,
		}
		if err := ls.PostListing(c.Request.Context(), l); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(nil, "listing created"))
	}
}

// NearbyListings handles GET /api/posts/nearby.
func NearbyListings(ls *services.LocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := parseNearbyQuery(c)
		if !ok {
			return
		}

		matches, err := ls.NearbyListings(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, toNearbyListings(matches))
	}
}

func toNearbyListings(matches []geo.Match[models.ListingWithOwner]) []nearbyListing {
	out := make([]nearbyListing, len(matches))
	for i, m := range matches {
		out[i] = nearbyListing{ListingWithOwner: m.Candidate, Distance: m.DistanceKm}
	}
	return out
}
