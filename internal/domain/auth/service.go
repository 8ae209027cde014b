package auth

import "context"

type AuthService interface {
	// SignupAdmin creates a company, its first admin and its invitation code in one transaction.
	SignupAdmin(ctx context.Context, req AdminSignupRequest) (AuthResponse, error)
	SignupEmployee(ctx context.Context, req EmployeeSignupRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Logout(ctx context.Context, accessToken string) error
}
