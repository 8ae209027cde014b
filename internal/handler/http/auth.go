package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	SignupAdmin(w http.ResponseWriter, r *http.Request)
	SignupEmployee(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// SignupAdmin implements AuthHandler.
func (a *AuthHandlerImpl) SignupAdmin(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r) {
		return
	}

	var req auth.AdminSignupRequest
	if err := decodeFormData(r, &req, true); err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	avatar, err := formImage(r, "avatar")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.Avatar = avatar

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := a.authService.SignupAdmin(r.Context(), req)
	if err != nil {
		slog.Error("Admin signup failed", "email", req.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Company registered", "company_id", result.Employee.CompanyID)
	response.Created(w, "Company registered successfully", result)
}

// SignupEmployee implements AuthHandler.
func (a *AuthHandlerImpl) SignupEmployee(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r) {
		return
	}

	var req auth.EmployeeSignupRequest
	if err := decodeFormData(r, &req, true); err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	avatar, err := formImage(r, "avatar")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.Avatar = avatar

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := a.authService.SignupEmployee(r.Context(), req)
	if err != nil {
		slog.Error("Employee signup failed", "email", req.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Account created successfully", result)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if !decodeJSON(w, r, &loginReq) {
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login rejected", "email", loginReq.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in successfully", "employee_id", tokenResponse.Employee.ID)
	response.SuccessWithMessage(w, "User logged in successfully", tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := a.authService.Logout(r.Context(), token); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User logged out successfully", nil)
}
