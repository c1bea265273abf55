package service

import (
	"context"
	"errors"
	"testing"

	"fashionhub/internal/kv"
	"fashionhub/internal/models"
	"fashionhub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(store.New(kv.NewMemory()))
}

func TestListSeedsOnFirstAccess(t *testing.T) {
	catalog := newCatalogFixture(t)
	ctx := context.Background()

	products, err := catalog.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.SKU)
		assert.Equal(t, defaultSeedStock, p.Stock)
		assert.True(t, p.InStock)
		assert.False(t, p.CreatedAt.IsZero())
		assert.GreaterOrEqual(t, p.Price, int64(0))
	}

	// $25.00 seed entry lands as 2500 cents.
	first, err := catalog.GetByID(ctx, "prod1")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), first.Price)
	assert.Equal(t, "SKU1", first.SKU)
}

func TestSeedRunsOnce(t *testing.T) {
	catalog := newCatalogFixture(t)
	ctx := context.Background()

	products, err := catalog.List(ctx)
	require.NoError(t, err)
	n := len(products)

	again, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, again, n)
}

func TestAddAssignsIDAndTimestamps(t *testing.T) {
	catalog := newCatalogFixture(t)
	ctx := context.Background()

	p, err := catalog.Add(ctx, models.Product{
		Name: "Linen Blazer", Category: "outerwear", Price: 7900, Stock: 12,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.InStock)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := catalog.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linen Blazer", got.Name)
}

func TestUpdateKeepsIdentity(t *testing.T) {
	catalog := newCatalogFixture(t)
	ctx := context.Background()

	p, err := catalog.Add(ctx, models.Product{Name: "Linen Blazer", Price: 7900, Stock: 12})
	require.NoError(t, err)

	updated, err := catalog.Update(ctx, p.ID, models.Product{Name: "Linen Blazer", Price: 6900, Stock: 0})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, int64(6900), updated.Price)
	assert.False(t, updated.InStock)
}

func TestUpdateIsWholesaleReplace(t *testing.T) {
	catalog := newCatalogFixture(t)
	ctx := context.Background()

	p, err := catalog.Add(ctx, models.Product{
		Name:        "Linen Blazer",
		Price:       7900,
		Description: "Lightweight summer blazer",
		Sizes:       []string{"S", "M", "L"},
		Colors:      []string{"Beige"},
		Stock:       12,
	})
	require.NoError(t, err)

	// Fields omitted from the replacement record are cleared, not kept.
	updated, err := catalog.Update(ctx, p.ID, models.Product{Name: "Linen Blazer", Price: 7900, Stock: 12})
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
	assert.Empty(t, updated.Sizes)
	assert.Empty(t, updated.Colors)

	got, err := catalog.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Description)
}

func TestUpdateUnknownProduct(t *testing.T) {
	catalog := newCatalogFixture(t)

	_, err := catalog.Update(context.Background(), "prod-missing", models.Product{Name: "X"})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestDeleteProductFromCatalog(t *testing.T) {
	catalog := newCatalogFixture(t)
	ctx := context.Background()

	p, err := catalog.Add(ctx, models.Product{Name: "Linen Blazer", Price: 7900})
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(ctx, p.ID))
	_, err = catalog.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = catalog.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
