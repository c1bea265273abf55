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

func TestSelectedDefaultsToUSD(t *testing.T) {
	svc := NewCurrencyService(store.New(kv.NewMemory()))

	code, err := svc.Selected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "USD", code)
}

func TestSetSelectedPersists(t *testing.T) {
	svc := NewCurrencyService(store.New(kv.NewMemory()))
	ctx := context.Background()

	require.NoError(t, svc.SetSelected(ctx, "BDT"))

	code, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BDT", code)
}

func TestSetSelectedRejectsUnknownCode(t *testing.T) {
	svc := NewCurrencyService(store.New(kv.NewMemory()))

	err := svc.SetSelected(context.Background(), "EUR")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestConvertIsDisplayOnly(t *testing.T) {
	// $25.00 at 119.50 BDT/USD
	assert.InDelta(t, 2987.5, Convert(2500, "BDT"), 0.001)
	assert.InDelta(t, 25.0, Convert(2500, "USD"), 0.001)
	// Unknown codes fall back to USD.
	assert.InDelta(t, 25.0, Convert(2500, "XYZ"), 0.001)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$64.00", Format(6400, "USD"))
	assert.Equal(t, "₹2080.00", Format(2500, "INR"))
}

func TestWishlistToggle(t *testing.T) {
	st := store.New(kv.NewMemory())
	wishlist := NewWishlistService(st)
	ctx := context.Background()

	added, err := wishlist.Toggle(ctx, "prod-1")
	require.NoError(t, err)
	assert.True(t, added)

	on, err := wishlist.Contains(ctx, "prod-1")
	require.NoError(t, err)
	assert.True(t, on)

	added, err = wishlist.Toggle(ctx, "prod-1")
	require.NoError(t, err)
	assert.False(t, added)

	ids, err := wishlist.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestWishlistIsPerUser(t *testing.T) {
	st := store.New(kv.NewMemory())
	wishlist := NewWishlistService(st)
	ctx := context.Background()

	_, err := wishlist.Toggle(ctx, "prod-guest")
	require.NoError(t, err)

	require.NoError(t, st.SetCurrentUser(ctx, models.User{ID: "user-1", Email: "jane@example.com"}))

	ids, err := wishlist.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "logged-in user starts with their own list")

	_, err = wishlist.Toggle(ctx, "prod-user")
	require.NoError(t, err)

	require.NoError(t, st.ClearCurrentUser(ctx))
	ids, err = wishlist.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-guest"}, ids)
}
