package container

import (
	"log/slog"

	"github.com/joshua-takyi/nearwork/internal/config"
	"github.com/joshua-takyi/nearwork/internal/models"
	"github.com/joshua-takyi/nearwork/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger          *slog.Logger
	Config          *config.Config
	Store           models.LocationStore
	LocationService *services.LocationService
}

// NewContainer creates a new dependency injection container. The store is
// opened by the caller, which also closes it on shutdown.
func NewContainer(logger *slog.Logger, cfg *config.Config, store models.LocationStore) *Container {
	locationService := services.NewLocationService(store, cfg.DefaultRadiusKm)

	return &Container{
		Logger:          logger,
		Config:          cfg,
		Store:           store,
		LocationService: locationService,
	}
}
