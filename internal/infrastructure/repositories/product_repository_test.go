package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullharslan/ProductManager/domain"
)

func seedProducts(t *testing.T, repo domain.ProductRepository) []*domain.Product {
	t.Helper()
	products := []*domain.Product{
		{Name: "Blue Widget", Description: "small", Price: 9.99, StockQuantity: 5, IsActive: true},
		{Name: "Red Widget", Description: "large", Price: 19.5, StockQuantity: 0, IsActive: true},
		{Name: "Widget Classic", Price: 4, StockQuantity: 1, IsActive: false},
		{Name: "Gadget", Price: 100, StockQuantity: 3, IsActive: true},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(context.Background(), p))
		require.NotZero(t, p.ID)
	}
	return products
}

func names(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestProductRepositoryImpl_Queries(t *testing.T) {
	repo := NewProductRepository(setupTestDB(t))
	ctx := context.Background()
	seeded := seedProducts(t, repo)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Widget", "Red Widget", "Widget Classic", "Gadget"}, names(all))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Widget", "Red Widget", "Gadget"}, names(active))

	found, err := repo.SearchByName(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Widget", "Red Widget"}, names(found), "inactive products are excluded")

	none, err := repo.SearchByName(ctx, "sprocket")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := repo.GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Widget", got.Name)
	assert.InDelta(t, 9.99, got.Price, 0.0001)
	assert.Nil(t, got.UpdatedAt)

	_, err = repo.GetByID(ctx, 9999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductRepositoryImpl_SearchByNameMatchesLiterally(t *testing.T) {
	repo := NewProductRepository(setupTestDB(t))
	ctx := context.Background()
	for _, name := range []string{"Laptop", "Mouse", "50% off bundle", "snake_case kit", `C:\tools`} {
		require.NoError(t, repo.Create(ctx, &domain.Product{Name: name, Price: 1, IsActive: true}))
	}

	tests := []struct {
		term     string
		expected []string
	}{
		{term: "%", expected: []string{"50% off bundle"}},
		{term: "_", expected: []string{"snake_case kit"}},
		{term: "e_c", expected: []string{"snake_case kit"}},
		{term: "0%", expected: []string{"50% off bundle"}},
		{term: `\`, expected: []string{`C:\tools`}},
		{term: "LAP", expected: []string{"Laptop"}},
		{term: "l_ptop", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			found, err := repo.SearchByName(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(found))
		})
	}
}

func TestProductRepositoryImpl_Update(t *testing.T) {
	repo := NewProductRepository(setupTestDB(t))
	ctx := context.Background()
	seeded := seedProducts(t, repo)

	p := seeded[0]
	now := time.Now().UTC().Truncate(time.Second)
	p.Name = "Blue Widget v2"
	p.IsActive = false
	p.StockQuantity = 0
	p.UpdatedAt = &now
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Widget v2", got.Name)
	assert.False(t, got.IsActive)
	assert.Equal(t, 0, got.StockQuantity)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(now))

	err = repo.Update(ctx, &domain.Product{ID: 9999, Name: "ghost", Price: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
