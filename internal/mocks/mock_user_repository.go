package mocks

import (
	"context"

	"github.com/abdullharslan/ProductManager/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc             func(ctx context.Context, user *domain.User) error
	FindByEmailFunc        func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc           func(ctx context.Context, id string) (*domain.User, error)
	UpdateFunc             func(ctx context.Context, user *domain.User) error
	ConfirmEmailFunc       func(ctx context.Context, userID string) error
	UpdatePasswordHashFunc func(ctx context.Context, userID, passwordHash string) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// Update updates an existing user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// ConfirmEmail marks the user's email confirmed
func (m *MockUserRepository) ConfirmEmail(ctx context.Context, userID string) error {
	if m.ConfirmEmailFunc != nil {
		return m.ConfirmEmailFunc(ctx, userID)
	}
	return nil
}

// UpdatePasswordHash replaces the stored password hash
func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, userID, passwordHash)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
