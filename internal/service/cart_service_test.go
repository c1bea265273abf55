package service

import (
	"context"
	"testing"

	"fashionhub/internal/kv"
	"fashionhub/internal/models"
	"fashionhub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) (*CartService, *store.Store) {
	t.Helper()
	st := store.New(kv.NewMemory())
	return NewCartService(st), st
}

func testProduct() *models.Product {
	return &models.Product{
		ID:    "prod-1",
		Name:  "Classic White Shirt",
		Price: 2500,
		Image: "images/shirt.jpg",
	}
}

func TestAddLineSnapshotsProduct(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()

	line, err := cart.AddLine(ctx, testProduct(), "M", "White", 2)
	require.NoError(t, err)
	assert.Equal(t, "Classic White Shirt", line.Name)
	assert.Equal(t, int64(2500), line.Price)
	assert.Equal(t, 2, line.Quantity)

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddLineIncrementsExistingKey(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()
	p := testProduct()

	for i := 0; i < 3; i++ {
		_, err := cart.AddLine(ctx, p, "M", "White", 2)
		require.NoError(t, err)
	}

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 6, items[0].Quantity)
}

func TestAddLineDistinctKeysStaySeparate(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()
	p := testProduct()

	_, err := cart.AddLine(ctx, p, "M", "White", 1)
	require.NoError(t, err)
	_, err = cart.AddLine(ctx, p, "L", "White", 1)
	require.NoError(t, err)
	_, err = cart.AddLine(ctx, p, "M", "Blue", 1)
	require.NoError(t, err)

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestAddLineClampsAtCap(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()
	p := testProduct()

	_, err := cart.AddLine(ctx, p, "M", "White", 8)
	require.NoError(t, err)
	line, err := cart.AddLine(ctx, p, "M", "White", 8)
	require.NoError(t, err)
	assert.Equal(t, 10, line.Quantity)
}

func TestAddLineRequiresSizeAndColor(t *testing.T) {
	cart, _ := newCartFixture(t)

	_, err := cart.AddLine(context.Background(), testProduct(), "", "", 1)
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "size")
	assert.Contains(t, verr.Fields, "color")
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()
	p := testProduct()

	_, err := cart.AddLine(ctx, p, "M", "White", 2)
	require.NoError(t, err)

	require.NoError(t, cart.SetQuantity(ctx, p.ID, "M", "White", 0))

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetQuantityClampsAboveCap(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()
	p := testProduct()

	_, err := cart.AddLine(ctx, p, "M", "White", 2)
	require.NoError(t, err)

	require.NoError(t, cart.SetQuantity(ctx, p.ID, "M", "White", 25))

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
}

func TestRemoveLineIsNoOpWhenAbsent(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, cart.RemoveLine(ctx, "prod-unknown", "M", "White"))

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSubtotalAndItemCount(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := cart.AddLine(ctx, testProduct(), "M", "White", 2)
	require.NoError(t, err)
	_, err = cart.AddLine(ctx, &models.Product{ID: "prod-2", Name: "Scarf", Price: 1250}, "One Size", "Red", 1)
	require.NoError(t, err)

	subtotal, err := cart.Subtotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2*2500+1250), subtotal)

	count, err := cart.ItemCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestClear(t *testing.T) {
	cart, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := cart.AddLine(ctx, testProduct(), "M", "White", 2)
	require.NoError(t, err)
	require.NoError(t, cart.Clear(ctx))

	empty, err := cart.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}
