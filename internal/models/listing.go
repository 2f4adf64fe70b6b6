package models

import (
	"strings"
	"time"

	"github.com/joshua-takyi/nearwork/internal/geo"
)

const DefaultCategory = "General"

// Listing is an append-only availability post. It is never updated after
// InsertListing.
type Listing struct {
	ID          string    `db:"id" bson:"_id" json:"id" validate:"required"`
	OwnerID     string    `db:"user_id" bson:"user_id" json:"user_id"`
	Title       string    `db:"title" bson:"title" json:"title" validate:"required"`
	Description string    `db:"description" bson:"description" json:"description"`
	Category    string    `db:"category" bson:"category" json:"category"`
	Lat         float64   `db:"lat" bson:"lat" json:"lat"`
	Lng         float64   `db:"lng" bson:"lng" json:"lng"`
	CreatedAt   time.Time `db:"created_at" bson:"created_at" json:"created_at"`
}

func (l *Listing) Validate() error {
	if err := Validate.Struct(l); err != nil {
		return fromValidator(err)
	}
	if strings.TrimSpace(l.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	if !geo.ValidLatitude(l.Lat) {
		return NewValidationError("lat", "must be between -90 and 90")
	}
	if !geo.ValidLongitude(l.Lng) {
		return NewValidationError("lng", "must be between -180 and 180")
	}
	return nil
}

// ListingWithOwner is a listing joined with its owner's current name. OwnerName
// is nil when the owner no longer resolves.
type ListingWithOwner struct {
	Listing `bson:",inline"`

	OwnerName *string `db:"user_name" bson:"user_name" json:"user_name"`
}

func (l ListingWithOwner) Key() string { return l.ID }

func (l ListingWithOwner) Point() (geo.Point, bool) {
	return geo.Point{Lat: l.Lat, Lng: l.Lng}, true
}
