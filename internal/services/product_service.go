package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/abdullharslan/ProductManager/domain"
)

// Product validation messages
const (
	MsgProductNameRequired   = "Product name is required."
	MsgProductNameTooLong    = "Product name cannot exceed 200 characters."
	MsgDescriptionTooLong    = "Description cannot exceed 500 characters."
	MsgPriceNotPositive      = "Price must be greater than zero."
	MsgStockNegative         = "Stock quantity cannot be negative."
	MsgSearchTermEmpty       = "Search term cannot be empty."
	msgProductNotFoundFormat = "Product with ID %d not found."
)

const (
	maxProductNameLength = 200
	maxDescriptionLength = 500
)

// ProductServiceImpl implements domain.ProductService
type ProductServiceImpl struct {
	products domain.ProductRepository
	logger   *logrus.Logger
	now      func() time.Time
}

// NewProductService creates a new product service
func NewProductService(products domain.ProductRepository, logger *logrus.Logger) domain.ProductService {
	return &ProductServiceImpl{products: products, logger: logger, now: time.Now}
}

// GetAll implements domain.ProductService
func (s *ProductServiceImpl) GetAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByID implements domain.ProductService
func (s *ProductServiceImpl) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, productNotFound(id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetActive implements domain.ProductService
func (s *ProductServiceImpl) GetActive(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active products: %w", err)
	}
	return products, nil
}

// Search implements domain.ProductService
func (s *ProductServiceImpl) Search(ctx context.Context, name string) ([]domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError(MsgSearchTermEmpty)
	}
	products, err := s.products.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Create implements domain.ProductService. Products are active unless the
// input says otherwise.
func (s *ProductServiceImpl) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		IsActive:      true,
		CreatedAt:     s.now().UTC(),
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithField("product_id", product.ID).Info("product created")
	return product, nil
}

// Update implements domain.ProductService
func (s *ProductServiceImpl) Update(ctx context.Context, id uint, input domain.ProductInput) error {
	if err := validateProductInput(input); err != nil {
		return err
	}

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.StockQuantity = input.StockQuantity
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.save(ctx, product); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product updated")
	return nil
}

// Delete implements domain.ProductService. The product is deactivated, not removed.
func (s *ProductServiceImpl) Delete(ctx context.Context, id uint) error {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	product.IsActive = false
	if err := s.save(ctx, product); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deactivated")
	return nil
}

func (s *ProductServiceImpl) save(ctx context.Context, product *domain.Product) error {
	now := s.now().UTC()
	product.UpdatedAt = &now
	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return productNotFound(product.ID)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func productNotFound(id uint) error {
	return domain.NewNotFoundError(fmt.Sprintf(msgProductNotFoundFormat, id))
}

func validateProductInput(input domain.ProductInput) error {
	var errs []string

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		errs = append(errs, MsgProductNameRequired)
	case utf8.RuneCountInString(name) > maxProductNameLength:
		errs = append(errs, MsgProductNameTooLong)
	}
	if utf8.RuneCountInString(input.Description) > maxDescriptionLength {
		errs = append(errs, MsgDescriptionTooLong)
	}
	if input.Price <= 0 {
		errs = append(errs, MsgPriceNotPositive)
	}
	if input.StockQuantity < 0 {
		errs = append(errs, MsgStockNegative)
	}

	if len(errs) > 0 {
		return domain.NewValidationError(errs...)
	}
	return nil
}
