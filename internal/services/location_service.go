package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/joshua-takyi/nearwork/internal/geo"
	"github.com/joshua-takyi/nearwork/internal/models"
)

// NearbyQuery is an origin and search radius. A zero RadiusKm means the
// service default; NaN and infinite radii are rejected.
type NearbyQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

func (q NearbyQuery) validate() error {
	if !geo.ValidLatitude(q.Lat) {
		return models.NewValidationError("lat", "must be between -90 and 90")
	}
	if !geo.ValidLongitude(q.Lng) {
		return models.NewValidationError("lng", "must be between -180 and 180")
	}
	if math.IsNaN(q.RadiusKm) || math.IsInf(q.RadiusKm, 0) || q.RadiusKm < 0 {
		return models.NewValidationError("radius", "must be a positive number")
	}
	return nil
}

type LocationService struct {
	store           models.LocationStore
	defaultRadiusKm float64
}

func NewLocationService(store models.LocationStore, defaultRadiusKm float64) *LocationService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = geo.DefaultRadiusKm
	}
	return &LocationService{
		store:           store,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// Join registers a participant or refreshes an existing one.
func (ls *LocationService) Join(ctx context.Context, p *models.Participant) error {
	if p == nil {
		return models.NewValidationError("", "participant is nil")
	}

	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Role = models.Role(strings.ToLower(strings.TrimSpace(string(p.Role))))

	return ls.store.UpsertParticipant(ctx, p)
}

// PostListing publishes a new listing. Listings cannot be edited afterwards.
func (ls *LocationService) PostListing(ctx context.Context, l *models.Listing) error {
	if l == nil {
		return models.NewValidationError("", "listing is nil")
	}

	l.ID = strings.TrimSpace(l.ID)
	l.OwnerID = strings.TrimSpace(l.OwnerID)
	l.Title = strings.TrimSpace(l.Title)
	l.Description = strings.TrimSpace(l.Description)
	l.Category = strings.TrimSpace(l.Category)
	if l.Category == "" {
		l.Category = models.DefaultCategory
	}

	return ls.store.InsertListing(ctx, l)
}

// NearbyParticipants ranks located participants with the role by distance
// from the query origin.
func (ls *LocationService) NearbyParticipants(ctx context.Context, role models.Role, q NearbyQuery) ([]geo.Match[models.Participant], error) {
	if !role.Valid() {
		return nil, models.NewValidationError("role", "must be one of [worker employer]")
	}
	if err := q.validate(); err != nil {
		return nil, err
	}

	candidates, err := ls.store.QueryParticipantsByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s candidates: %w", role, err)
	}

	return geo.Nearby(q.Lat, q.Lng, ls.radius(q), candidates), nil
}

func (ls *LocationService) NearbyWorkers(ctx context.Context, q NearbyQuery) ([]geo.Match[models.Participant], error) {
	return ls.NearbyParticipants(ctx, models.RoleWorker, q)
}

// NearbyListings ranks every listing by distance from the query origin.
func (ls *LocationService) NearbyListings(ctx context.Context, q NearbyQuery) ([]geo.Match[models.ListingWithOwner], error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	candidates, err := ls.store.QueryListingsWithOwnerName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	return geo.Nearby(q.Lat, q.Lng, ls.radius(q), candidates), nil
}

// Health reports whether the store answers.
func (ls *LocationService) Health(ctx context.Context) error {
	return ls.store.Ping(ctx)
}

func (ls *LocationService) radius(q NearbyQuery) float64 {
	if q.RadiusKm > 0 {
		return q.RadiusKm
	}
	return ls.defaultRadiusKm
}
