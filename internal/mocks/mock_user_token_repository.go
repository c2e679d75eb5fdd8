package mocks

import (
	"context"
	"time"

	"github.com/abdullharslan/ProductManager/domain"
)

// MockUserTokenRepository implements domain.UserTokenRepository interface for testing
type MockUserTokenRepository struct {
	StoreFunc   func(ctx context.Context, purpose, userID, token string, ttl time.Duration) error
	ConsumeFunc func(ctx context.Context, purpose, userID, token string) (bool, error)
}

// NewMockUserTokenRepository creates a new MockUserTokenRepository with default behaviors
func NewMockUserTokenRepository() *MockUserTokenRepository {
	return &MockUserTokenRepository{}
}

// Store saves a token
func (m *MockUserTokenRepository) Store(ctx context.Context, purpose, userID, token string, ttl time.Duration) error {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, purpose, userID, token, ttl)
	}
	return nil
}

// Consume checks and removes a token
func (m *MockUserTokenRepository) Consume(ctx context.Context, purpose, userID, token string) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, purpose, userID, token)
	}
	// Default behavior: token rejected
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.UserTokenRepository = (*MockUserTokenRepository)(nil)
