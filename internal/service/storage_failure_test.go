package service

import (
	"context"
	"errors"
	"testing"

	"fashionhub/internal/broker"
	"fashionhub/internal/kv"
	"fashionhub/internal/models"
	"fashionhub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackendDown = errors.New("backend unavailable")

// brokenBackend wraps the in-memory backend and fails operations on demand,
// standing in for an unreachable Redis or Postgres.
type brokenBackend struct {
	kv.Store
	failReads  bool
	failWrites bool
}

func (b *brokenBackend) Get(ctx context.Context, key string, dest interface{}) error {
	if b.failReads {
		return errBackendDown
	}
	return b.Store.Get(ctx, key, dest)
}

func (b *brokenBackend) Set(ctx context.Context, key string, value interface{}) error {
	if b.failWrites {
		return errBackendDown
	}
	return b.Store.Set(ctx, key, value)
}

func TestAddLineWriteFailureIsStorageError(t *testing.T) {
	backend := &brokenBackend{Store: kv.NewMemory()}
	cart := NewCartService(store.New(backend))
	ctx := context.Background()

	backend.failWrites = true
	_, err := cart.AddLine(ctx, testProduct(), "M", "White", 1)

	var serr *models.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "write", serr.Op)
	assert.True(t, errors.Is(err, errBackendDown))

	backend.failWrites = false
	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "failed write must leave the cart unchanged")
}

func TestItemsReadFailureIsStorageError(t *testing.T) {
	backend := &brokenBackend{Store: kv.NewMemory(), failReads: true}
	cart := NewCartService(store.New(backend))

	_, err := cart.Items(context.Background())

	var serr *models.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "read", serr.Op)
}

func TestCreateOrderStorageErrorLeavesCollectionsUnchanged(t *testing.T) {
	backend := &brokenBackend{Store: kv.NewMemory()}
	st := store.New(backend)
	settings := NewSettingsService(st)
	cart := NewCartService(st)
	orders := NewOrderService(st, cart, settings, broker.NopPublisher{})
	ctx := context.Background()

	_, err := cart.AddLine(ctx, testProduct(), "M", "White", 2)
	require.NoError(t, err)

	backend.failWrites = true
	_, err = orders.CreateOrder(ctx, validForm())

	var serr *models.StorageError
	require.ErrorAs(t, err, &serr)

	backend.failWrites = false
	stored, err := st.Orders(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored, "failed checkout must not append an order")

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1, "cart survives a failed checkout")

	last, err := st.LastOrder(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
}
