package mocks

import (
	"context"

	"github.com/abdullharslan/ProductManager/domain"
)

// MockProductRepository implements domain.ProductRepository interface for testing
type MockProductRepository struct {
	GetAllFunc       func(ctx context.Context) ([]domain.Product, error)
	GetByIDFunc      func(ctx context.Context, id uint) (*domain.Product, error)
	GetActiveFunc    func(ctx context.Context) ([]domain.Product, error)
	SearchByNameFunc func(ctx context.Context, name string) ([]domain.Product, error)
	CreateFunc       func(ctx context.Context, product *domain.Product) error
	UpdateFunc       func(ctx context.Context, product *domain.Product) error
}

// NewMockProductRepository creates a new MockProductRepository with default behaviors
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{}
}

// GetAll lists all products
func (m *MockProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return []domain.Product{}, nil
}

// GetByID finds a product
func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// GetActive lists active products
func (m *MockProductRepository) GetActive(ctx context.Context) ([]domain.Product, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx)
	}
	return []domain.Product{}, nil
}

// SearchByName searches active products by name
func (m *MockProductRepository) SearchByName(ctx context.Context, name string) ([]domain.Product, error) {
	if m.SearchByNameFunc != nil {
		return m.SearchByNameFunc(ctx, name)
	}
	return []domain.Product{}, nil
}

// Create stores a product
func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, product)
	}
	product.ID = 1
	return nil
}

// Update stores changes to a product
func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, product)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.ProductRepository = (*MockProductRepository)(nil)
