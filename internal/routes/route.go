package routes

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/nearwork/internal/container"
	"github.com/joshua-takyi/nearwork/internal/handlers"
	"github.com/joshua-takyi/nearwork/internal/middleware"
	"github.com/joshua-takyi/nearwork/internal/models"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidation()

	r := gin.New()
	r.Use(cors.New(corsConfig(container.Config.CORSOrigins)))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	svc := container.LocationService

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health(svc))

		api.POST("/users", handlers.JoinParticipant(svc))
		api.POST("/posts", handlers.CreateListing(svc))

		api.GET("/posts/nearby", handlers.NearbyListings(svc))
		api.GET("/workers/nearby", handlers.NearbyParticipants(svc, models.RoleWorker))
		api.GET("/employers/nearby", handlers.NearbyParticipants(svc, models.RoleEmployer))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
