package mocks

import (
	"context"

	"github.com/abdullharslan/ProductManager/domain"
)

// MockCredentialStore implements domain.CredentialStore interface for testing
type MockCredentialStore struct {
	FindByEmailFunc                    func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc                       func(ctx context.Context, id string) (*domain.User, error)
	CreateFunc                         func(ctx context.Context, user *domain.User, password string) (*domain.IdentityResult, error)
	CheckPasswordFunc                  func(ctx context.Context, user *domain.User, password string) (bool, error)
	UpdateFunc                         func(ctx context.Context, user *domain.User) error
	GenerateEmailConfirmationTokenFunc func(ctx context.Context, user *domain.User) (string, error)
	ConfirmEmailFunc                   func(ctx context.Context, user *domain.User, token string) (*domain.IdentityResult, error)
	GeneratePasswordResetTokenFunc     func(ctx context.Context, user *domain.User) (string, error)
	ResetPasswordFunc                  func(ctx context.Context, user *domain.User, token, newPassword string) (*domain.IdentityResult, error)

	// UpdatedUsers records every user passed to Update
	UpdatedUsers []domain.User
}

// NewMockCredentialStore creates a new MockCredentialStore with default behaviors
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{}
}

// FindByEmail finds a user by email
func (m *MockCredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by id
func (m *MockCredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a user with a password
func (m *MockCredentialStore) Create(ctx context.Context, user *domain.User, password string) (*domain.IdentityResult, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, password)
	}
	if user.ID == "" {
		user.ID = "mock-user-id"
	}
	return domain.IdentitySuccess(), nil
}

// CheckPassword verifies a password
func (m *MockCredentialStore) CheckPassword(ctx context.Context, user *domain.User, password string) (bool, error) {
	if m.CheckPasswordFunc != nil {
		return m.CheckPasswordFunc(ctx, user, password)
	}
	return user.PasswordHash == "hashed_"+password, nil
}

// Update persists the user
func (m *MockCredentialStore) Update(ctx context.Context, user *domain.User) error {
	m.UpdatedUsers = append(m.UpdatedUsers, *user)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// GenerateEmailConfirmationToken issues a confirmation token
func (m *MockCredentialStore) GenerateEmailConfirmationToken(ctx context.Context, user *domain.User) (string, error) {
	if m.GenerateEmailConfirmationTokenFunc != nil {
		return m.GenerateEmailConfirmationTokenFunc(ctx, user)
	}
	return "confirm+token/==", nil
}

// ConfirmEmail checks a confirmation token
func (m *MockCredentialStore) ConfirmEmail(ctx context.Context, user *domain.User, token string) (*domain.IdentityResult, error) {
	if m.ConfirmEmailFunc != nil {
		return m.ConfirmEmailFunc(ctx, user, token)
	}
	return domain.IdentitySuccess(), nil
}

// GeneratePasswordResetToken issues a reset token
func (m *MockCredentialStore) GeneratePasswordResetToken(ctx context.Context, user *domain.User) (string, error) {
	if m.GeneratePasswordResetTokenFunc != nil {
		return m.GeneratePasswordResetTokenFunc(ctx, user)
	}
	return "reset+token/==", nil
}

// ResetPassword checks a reset token and replaces the password
func (m *MockCredentialStore) ResetPassword(ctx context.Context, user *domain.User, token, newPassword string) (*domain.IdentityResult, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, user, token, newPassword)
	}
	return domain.IdentitySuccess(), nil
}

// Compile-time interface compliance verification
var _ domain.CredentialStore = (*MockCredentialStore)(nil)
