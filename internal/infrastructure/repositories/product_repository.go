package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/abdullharslan/ProductManager/domain"
)

// DBProduct is the persistence model for domain.Product
type DBProduct struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"size:200;not null;index"`
	Description   string  `gorm:"size:500"`
	Price         float64 `gorm:"type:decimal(18,2);not null"`
	StockQuantity int     `gorm:"not null"`
	IsActive      bool    `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the table name for GORM
func (DBProduct) TableName() string {
	return "products"
}

// ProductRepositoryImpl implements domain.ProductRepository using GORM
type ProductRepositoryImpl struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

// GetAll implements domain.ProductRepository
func (r *ProductRepositoryImpl) GetAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

// GetActive implements domain.ProductRepository
func (r *ProductRepositoryImpl) GetActive(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("is_active = ?", true))
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByName implements domain.ProductRepository. Only active products whose
// name contains the term, ignoring case, match.
func (r *ProductRepositoryImpl) SearchByName(ctx context.Context, name string) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(name)+"%")
	return r.list(ctx, q)
}

func (r *ProductRepositoryImpl) list(_ context.Context, q *gorm.DB) ([]domain.Product, error) {
	var rows []DBProduct
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for i := range rows {
		out = append(out, *dbToDomainProduct(&rows[i]))
	}
	return out, nil
}

// GetByID implements domain.ProductRepository
func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var row DBProduct
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return dbToDomainProduct(&row), nil
}

// Create implements domain.ProductRepository
func (r *ProductRepositoryImpl) Create(ctx context.Context, product *domain.Product) error {
	row := domainToDBProduct(product)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	product.ID = row.ID
	product.CreatedAt = row.CreatedAt
	return nil
}

// Update implements domain.ProductRepository
func (r *ProductRepositoryImpl) Update(ctx context.Context, product *domain.Product) error {
	row := domainToDBProduct(product)
	res := r.db.WithContext(ctx).Model(&DBProduct{}).Where("id = ?", product.ID).
		Select("*").Omit("id", "created_at").Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func domainToDBProduct(p *domain.Product) *DBProduct {
	return &DBProduct{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func dbToDomainProduct(row *DBProduct) *domain.Product {
	return &domain.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Price:         row.Price,
		StockQuantity: row.StockQuantity,
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
