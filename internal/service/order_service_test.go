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

type orderFixture struct {
	store  *store.Store
	cart   *CartService
	orders *OrderService
}

// newOrderFixture builds the checkout pipeline on an in-memory store with a
// flat $10 shipping fee and the free-shipping threshold disabled, so derived
// totals are predictable.
func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	st := store.New(kv.NewMemory())
	settings := NewSettingsService(st)

	custom := DefaultSettings()
	custom.FreeShippingThreshold = 0
	require.NoError(t, st.SaveSettings(context.Background(), custom))

	cart := NewCartService(st)
	return &orderFixture{
		store:  st,
		cart:   cart,
		orders: NewOrderService(st, cart, settings, broker.NopPublisher{}),
	}
}

func validForm() ShippingForm {
	return ShippingForm{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "(555) 123-4567",
		Address: "42 Main St",
		City:    "Springfield",
		State:   "IL",
		Zip:     "62704",
	}
}

func (f *orderFixture) fillCart(t *testing.T) {
	t.Helper()
	_, err := f.cart.AddLine(context.Background(), &models.Product{
		ID: "prod-1", Name: "Classic White Shirt", Price: 2500, Image: "images/shirt.jpg",
	}, "M", "White", 2)
	require.NoError(t, err)
}

func TestCreateOrderDerivesTotals(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	// 25.00 x 2 at 8% tax with $10 shipping
	assert.Equal(t, int64(5000), order.Subtotal)
	assert.Equal(t, int64(400), order.Tax)
	assert.Equal(t, int64(1000), order.Shipping)
	assert.Equal(t, int64(6400), order.Total)
	assert.Equal(t, order.Subtotal+order.Tax+order.Shipping, order.Total)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.OrderStatusPending, order.StatusHistory[0].Status)
	assert.Equal(t, "Jane Doe", order.StatusHistory[0].By)
}

func TestCreateOrderClearsCartAndRecordsLastOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	empty, err := f.cart.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	last, err := f.orders.LastOrder(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, order.ID, last.ID)
}

func TestCreateOrderTwiceProducesDistinctOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.fillCart(t)
	first, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	f.fillCart(t)
	second, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	orders, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestCreateOrderCollectsAllInvalidFields(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	form := validForm()
	form.Email = "not-an-email"
	form.Phone = "555-123-456" // 9 digits

	_, err := f.orders.CreateOrder(ctx, form)
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "phone")

	orders, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "no order should be appended on validation failure")
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.CreateOrder(context.Background(), validForm())
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "cart")
}

func TestCreateOrderUsesSessionUser(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.SetCurrentUser(ctx, models.User{
		ID: "user-7", Name: "Jane", Email: "jane@example.com", Role: models.RoleCustomer,
	}))
	f.fillCart(t)

	order, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, "user-7", order.UserID)
}

func TestCreateOrderGuestCheckout(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	order, err := f.orders.CreateOrder(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, models.GuestUserID, order.UserID)
}

func TestCreateOrderAppliesFreeShipping(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	withThreshold := DefaultSettings() // threshold $50.00
	require.NoError(t, f.store.SaveSettings(ctx, withThreshold))
	f.fillCart(t) // subtotal $50.00

	order, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(0), order.Shipping)
	assert.Equal(t, int64(5400), order.Total)
}

func TestSetStatusAppendsHistory(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	statuses := []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		// No terminal states: delivered can go back to cancelled.
		models.OrderStatusCancelled,
		models.OrderStatusPending,
	}
	for _, st := range statuses {
		updated, err := f.orders.SetStatus(ctx, order.ID, st, "Admin")
		require.NoError(t, err)
		assert.Equal(t, st, updated.Status)
	}

	got, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	// Initial pending entry plus one per change.
	require.Len(t, got.StatusHistory, 1+len(statuses))
	last := got.StatusHistory[len(got.StatusHistory)-1]
	assert.Equal(t, models.OrderStatusPending, last.Status)
	assert.Equal(t, "Admin", last.By)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.SetStatus(context.Background(), "ORD-missing", models.OrderStatusShipped, "Admin")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSetStatusRejectsUnknownLabel(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, order.ID, "exploded", "Admin")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSetPaymentStatusAuditsTransition(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	updated, err := f.orders.SetPaymentStatus(ctx, order.ID, models.PaymentStatusPaid, "Admin")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	last := updated.StatusHistory[len(updated.StatusHistory)-1]
	assert.Equal(t, "payment:paid", last.Status)
}

func TestSetPaymentStatusUnknownOrderLeavesCollectionUnchanged(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	_, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	_, err = f.orders.SetPaymentStatus(ctx, "nonexistent-id", models.PaymentStatusPaid, "Admin")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	orders, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.PaymentStatusPending, orders[0].PaymentStatus)
}

func TestSetNotesOverwrites(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	updated, err := f.orders.SetNotes(ctx, order.ID, "call before delivery")
	require.NoError(t, err)
	assert.Equal(t, "call before delivery", updated.Notes)

	updated, err = f.orders.SetNotes(ctx, order.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, "resolved", updated.Notes)
}

func TestListByStatusAndSearch(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.fillCart(t)
	first, err := f.orders.CreateOrder(ctx, validForm())
	require.NoError(t, err)

	f.fillCart(t)
	form := validForm()
	form.Name = "Bob Smith"
	form.Email = "bob@example.com"
	second, err := f.orders.CreateOrder(ctx, form)
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, first.ID, models.OrderStatusShipped, "Admin")
	require.NoError(t, err)

	shipped, err := f.orders.ListByStatus(ctx, models.OrderStatusShipped)
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, first.ID, shipped[0].ID)

	byName, err := f.orders.Search(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, second.ID, byName[0].ID)

	byEmail, err := f.orders.Search(ctx, "JANE@EXAMPLE.COM")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, first.ID, byEmail[0].ID)

	byID, err := f.orders.Search(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, byID, 1)
}
