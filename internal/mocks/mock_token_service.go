package mocks

import (
	"fmt"

	"github.com/abdullharslan/ProductManager/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateTokensFunc               func(user *domain.User) (*domain.TokenPair, error)
	ValidateTokenFunc                func(token string) bool
	GetPrincipalFromExpiredTokenFunc func(token string) (*domain.TokenClaims, error)
	GenerateTwoFactorSecretFunc      func() (string, error)
	GenerateTwoFactorCodeFunc        func(secret string) (string, error)
	ValidateTwoFactorCodeFunc        func(secret, code string) bool

	issued int
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateTokens issues an access/refresh pair
func (m *MockTokenService) GenerateTokens(user *domain.User) (*domain.TokenPair, error) {
	if m.GenerateTokensFunc != nil {
		return m.GenerateTokensFunc(user)
	}
	// Default behavior: distinct tokens per call
	m.issued++
	return &domain.TokenPair{
		AccessToken:  fmt.Sprintf("access_%s_%d", user.ID, m.issued),
		RefreshToken: fmt.Sprintf("refresh_%s_%d", user.ID, m.issued),
	}, nil
}

// ValidateToken validates an access token
func (m *MockTokenService) ValidateToken(token string) bool {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(token)
	}
	return false
}

// GetPrincipalFromExpiredToken extracts claims ignoring expiry
func (m *MockTokenService) GetPrincipalFromExpiredToken(token string) (*domain.TokenClaims, error) {
	if m.GetPrincipalFromExpiredTokenFunc != nil {
		return m.GetPrincipalFromExpiredTokenFunc(token)
	}
	return nil, domain.ErrInvalidToken
}

// GenerateTwoFactorSecret creates a TOTP secret
func (m *MockTokenService) GenerateTwoFactorSecret() (string, error) {
	if m.GenerateTwoFactorSecretFunc != nil {
		return m.GenerateTwoFactorSecretFunc()
	}
	return "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP", nil
}

// GenerateTwoFactorCode computes the current code
func (m *MockTokenService) GenerateTwoFactorCode(secret string) (string, error) {
	if m.GenerateTwoFactorCodeFunc != nil {
		return m.GenerateTwoFactorCodeFunc(secret)
	}
	return "123456", nil
}

// ValidateTwoFactorCode checks a code against a secret
func (m *MockTokenService) ValidateTwoFactorCode(secret, code string) bool {
	if m.ValidateTwoFactorCodeFunc != nil {
		return m.ValidateTwoFactorCodeFunc(secret, code)
	}
	return secret != "" && code == "123456"
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
