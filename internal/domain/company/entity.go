package company

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/geo"
)

// PendingInvitationCode marks a company whose admin sign-up is still in flight.
// It only ever exists inside the sign-up transaction.
const PendingInvitationCode = "PENDING"

type Company struct {
	ID             string
	Name           string
	InvitationCode string
	Latitude       *float64
	Longitude      *float64
	RadiusMeters   *float64
	Timezone       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Geofence returns the office fence, or ok=false when any part is missing.
func (c Company) Geofence() (geo.Geofence, bool) {
	if c.Latitude == nil || c.Longitude == nil || c.RadiusMeters == nil || *c.RadiusMeters <= 0 {
		return geo.Geofence{}, false
	}
	return geo.Geofence{
		Center:       geo.Coordinates{Latitude: *c.Latitude, Longitude: *c.Longitude},
		RadiusMeters: *c.RadiusMeters,
	}, true
}

// Location resolves the company timezone, falling back when unset or unknown.
func (c Company) Location(fallback *time.Location) *time.Location {
	if c.Timezone == nil || *c.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(*c.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
