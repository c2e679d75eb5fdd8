package mocks

import (
	"context"

	"github.com/abdullharslan/ProductManager/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc          func(ctx context.Context, firstName, lastName, email, password string) (*domain.AuthResponse, error)
	LoginFunc             func(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	ValidateTwoFactorFunc func(ctx context.Context, email, code string) (*domain.AuthResponse, error)
	RefreshTokenFunc      func(ctx context.Context, accessToken, refreshToken string) (*domain.AuthResponse, error)
	ConfirmEmailFunc      func(ctx context.Context, userID, token string) (bool, error)
	ForgotPasswordFunc    func(ctx context.Context, email string) (bool, error)
	ResetPasswordFunc     func(ctx context.Context, email, token, newPassword string) (bool, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a user
func (m *MockAuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*domain.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, firstName, lastName, email, password)
	}
	return &domain.AuthResponse{Succeeded: true, Message: "Registration successful. Please check your email for confirmation."}, nil
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &domain.AuthResponse{Succeeded: true, Message: "Login successful", Token: "mock_access_token", RefreshToken: "mock_refresh_token"}, nil
}

// ValidateTwoFactor completes a two-factor login
func (m *MockAuthService) ValidateTwoFactor(ctx context.Context, email, code string) (*domain.AuthResponse, error) {
	if m.ValidateTwoFactorFunc != nil {
		return m.ValidateTwoFactorFunc(ctx, email, code)
	}
	return &domain.AuthResponse{Succeeded: true, Message: "2FA validation successful", Token: "mock_access_token", RefreshToken: "mock_refresh_token"}, nil
}

// RefreshToken exchanges a refresh token
func (m *MockAuthService) RefreshToken(ctx context.Context, accessToken, refreshToken string) (*domain.AuthResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, accessToken, refreshToken)
	}
	return &domain.AuthResponse{Succeeded: true, Message: "Token refresh successful", Token: "new_access_token", RefreshToken: "new_refresh_token"}, nil
}

// ConfirmEmail confirms an email address
func (m *MockAuthService) ConfirmEmail(ctx context.Context, userID, token string) (bool, error) {
	if m.ConfirmEmailFunc != nil {
		return m.ConfirmEmailFunc(ctx, userID, token)
	}
	return true, nil
}

// ForgotPassword starts a password reset
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return true, nil
}

// ResetPassword completes a password reset
func (m *MockAuthService) ResetPassword(ctx context.Context, email, token, newPassword string) (bool, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, token, newPassword)
	}
	return true, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
