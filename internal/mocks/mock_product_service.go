package mocks

import (
	"context"

	"github.com/abdullharslan/ProductManager/domain"
)

// MockProductService implements domain.ProductService interface for testing
type MockProductService struct {
	GetAllFunc    func(ctx context.Context) ([]domain.Product, error)
	GetByIDFunc   func(ctx context.Context, id uint) (*domain.Product, error)
	GetActiveFunc func(ctx context.Context) ([]domain.Product, error)
	SearchFunc    func(ctx context.Context, name string) ([]domain.Product, error)
	CreateFunc    func(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	UpdateFunc    func(ctx context.Context, id uint, input domain.ProductInput) error
	DeleteFunc    func(ctx context.Context, id uint) error
}

// NewMockProductService creates a new MockProductService with default behaviors
func NewMockProductService() *MockProductService {
	return &MockProductService{}
}

// GetAll lists all products
func (m *MockProductService) GetAll(ctx context.Context) ([]domain.Product, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return []domain.Product{}, nil
}

// GetByID finds a product
func (m *MockProductService) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// GetActive lists active products
func (m *MockProductService) GetActive(ctx context.Context) ([]domain.Product, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx)
	}
	return []domain.Product{}, nil
}

// Search finds active products by name
func (m *MockProductService) Search(ctx context.Context, name string) ([]domain.Product, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, name)
	}
	return []domain.Product{}, nil
}

// Create creates a product
func (m *MockProductService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input)
	}
	return &domain.Product{ID: 1, Name: input.Name, Price: input.Price, StockQuantity: input.StockQuantity, IsActive: true}, nil
}

// Update updates a product
func (m *MockProductService) Update(ctx context.Context, id uint, input domain.ProductInput) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, input)
	}
	return nil
}

// Delete soft-deletes a product
func (m *MockProductService) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.ProductService = (*MockProductService)(nil)
