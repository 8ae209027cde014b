package company

import (
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type UpdateGeofenceRequest struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

func (r *UpdateGeofenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	if !(r.RadiusMeters > 0) {
		errs.Add("radius_meters", "radius_meters must be greater than 0")
	} else if r.RadiusMeters > 50000 {
		errs.Add("radius_meters", "radius_meters must not exceed 50000")
	}

	return errs.Err()
}

type UpdateTimezoneRequest struct {
	Timezone string `json:"timezone"`
}

func (r *UpdateTimezoneRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidTimezone(r.Timezone) {
		errs.Add("timezone", "timezone must be a valid IANA zone, e.g. Asia/Jakarta")
	}
	return errs.Err()
}

type ShareInvitationRequest struct {
	Emails []string `json:"emails"`
}

func (r *ShareInvitationRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Emails) == 0 {
		errs.Add("emails", "at least one email is required")
	}
	if len(r.Emails) > 50 {
		errs.Add("emails", "at most 50 emails per request")
	}
	for i, email := range r.Emails {
		r.Emails[i] = strings.TrimSpace(email)
		if !validator.IsValidEmail(r.Emails[i]) {
			errs.Add("emails", "invalid email: "+email)
			break
		}
	}

	return errs.Err()
}

type CompanyResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	InvitationCode     string   `json:"invitation_code,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	RadiusMeters       *float64 `json:"radius_meters,omitempty"`
	Timezone           *string  `json:"timezone,omitempty"`
	GeofenceConfigured bool     `json:"geofence_configured"`
}

// NewCompanyResponse hides the invitation code from callers who cannot manage the company.
func NewCompanyResponse(c Company, includeCode bool) CompanyResponse {
	_, configured := c.Geofence()
	resp := CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Latitude:           c.Latitude,
		Longitude:          c.Longitude,
		RadiusMeters:       c.RadiusMeters,
		Timezone:           c.Timezone,
		GeofenceConfigured: configured,
	}
	if includeCode {
		resp.InvitationCode = c.InvitationCode
	}
	return resp
}

type InvitationCodeResponse struct {
	InvitationCode string `json:"invitation_code"`
}

type ShareInvitationResponse struct {
	Sent   []string `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}
