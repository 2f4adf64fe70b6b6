package models

import (
	"strings"
	"time"

	"github.com/joshua-takyi/nearwork/internal/geo"
)

type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
)

func (r Role) Valid() bool {
	return r == RoleWorker || r == RoleEmployer
}

// Participant is a worker or employer. Lat and Lng are nil until the
// participant shares a location fix.
type Participant struct {
	ID         string    `db:"id" bson:"_id" json:"id" validate:"required"`
	Name       string    `db:"name" bson:"name" json:"name" validate:"required"`
	Role       Role      `db:"role" bson:"role" json:"role" validate:"required,oneof=worker employer"`
	Lat        *float64  `db:"lat" bson:"lat" json:"lat"`
	Lng        *float64  `db:"lng" bson:"lng" json:"lng"`
	LastActive time.Time `db:"last_active" bson:"last_active" json:"last_active"`
}

func (p Participant) Key() string { return p.ID }

func (p Participant) Point() (geo.Point, bool) {
	if p.Lat == nil || p.Lng == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *p.Lat, Lng: *p.Lng}, true
}

// Validate checks the participant invariants every store enforces.
func (p *Participant) Validate() error {
	if err := Validate.Struct(p); err != nil {
		return fromValidator(err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	if (p.Lat == nil) != (p.Lng == nil) {
		return NewValidationError("location", "lat and lng must be given together")
	}
	if p.Lat != nil {
		if !geo.ValidLatitude(*p.Lat) {
			return NewValidationError("lat", "must be between -90 and 90")
		}
		if !geo.ValidLongitude(*p.Lng) {
			return NewValidationError("lng", "must be between -180 and 180")
		}
	}
	return nil
}
