package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type CompanyHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
	UpdateGeofence(w http.ResponseWriter, r *http.Request)
	UpdateTimezone(w http.ResponseWriter, r *http.Request)
	RegenerateInvitationCode(w http.ResponseWriter, r *http.Request)
	ShareInvitationCode(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: companyService,
	}
}

// GetMy implements CompanyHandler.
func (c *CompanyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := c.companyService.GetMy(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateGeofence implements CompanyHandler.
func (c *CompanyHandlerImpl) UpdateGeofence(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req company.UpdateGeofenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := c.companyService.UpdateGeofence(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Office location updated", result)
}

// UpdateTimezone implements CompanyHandler.
func (c *CompanyHandlerImpl) UpdateTimezone(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req company.UpdateTimezoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := c.companyService.UpdateTimezone(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Timezone updated", result)
}

// RegenerateInvitationCode implements CompanyHandler.
func (c *CompanyHandlerImpl) RegenerateInvitationCode(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := c.companyService.RegenerateInvitationCode(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Invitation code issued", result)
}

// ShareInvitationCode implements CompanyHandler.
func (c *CompanyHandlerImpl) ShareInvitationCode(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req company.ShareInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := c.companyService.ShareInvitationCode(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invitation code shared", result)
}
