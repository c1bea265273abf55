package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fashionhub/internal/broker"
	"fashionhub/internal/models"
	"fashionhub/internal/store"
	"fashionhub/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService owns the order history: checkout is its single write path
// that creates an order; afterwards only the status, payment status and
// notes are mutable, every label change audited.
type OrderService struct {
	store     *store.Store
	cart      *CartService
	settings  *SettingsService
	publisher broker.Publisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	st *store.Store,
	cart *CartService,
	settings *SettingsService,
	publisher broker.Publisher,
) *OrderService {
	return &OrderService{
		store:     st,
		cart:      cart,
		settings:  settings,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ShippingForm is the checkout form input
type ShippingForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

func (f ShippingForm) validate() error {
	v := models.NewValidationError()
	if strings.TrimSpace(f.Name) == "" {
		v.Add("name", "name is required")
	}
	if !validEmail(strings.TrimSpace(f.Email)) {
		v.Add("email", "valid email is required")
	}
	if !validPhone(f.Phone) {
		v.Add("phone", "valid 10-digit phone number is required")
	}
	if strings.TrimSpace(f.Address) == "" {
		v.Add("address", "address is required")
	}
	if strings.TrimSpace(f.City) == "" {
		v.Add("city", "city is required")
	}
	if strings.TrimSpace(f.State) == "" {
		v.Add("state", "state is required")
	}
	if !validZip(f.Zip) {
		v.Add("zip", "valid zip code is required")
	}
	return v.Err()
}

// CreateOrder validates the shipping form, snapshots the cart, derives the
// totals once, appends the order to the history and clears the cart. Two
// calls with identical input produce two distinct orders.
func (s *OrderService) CreateOrder(ctx context.Context, form ShippingForm) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if err := form.validate(); err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_form").Inc()
		return nil, err
	}

	items, err := s.cart.Items(ctx)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("storage_error").Inc()
		return nil, err
	}
	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		v := models.NewValidationError()
		v.Add("cart", "your cart is empty")
		return nil, v.Err()
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("storage_error").Inc()
		return nil, err
	}

	var subtotal int64
	for _, l := range items {
		subtotal += l.LineTotal()
	}
	quote := PricingFromSettings(settings).Quote(subtotal)

	userID := models.GuestUserID
	if current, err := s.store.CurrentUser(ctx); err != nil {
		util.OrdersFailedTotal.WithLabelValues("storage_error").Inc()
		return nil, err
	} else if current != nil {
		userID = current.ID
	}

	now := time.Now().UTC()
	order := models.Order{
		ID:       fmt.Sprintf("ORD-%s", uuid.New().String()),
		UserID:   userID,
		UserName: strings.TrimSpace(form.Name),
		Items:    items,
		Subtotal: quote.Subtotal,
		Tax:      quote.Tax,
		Shipping: quote.Shipping,
		Total:    quote.Total,
		ShippingAddress: models.ShippingAddress{
			Name:    strings.TrimSpace(form.Name),
			Email:   strings.TrimSpace(form.Email),
			Phone:   strings.TrimSpace(form.Phone),
			Address: strings.TrimSpace(form.Address),
			City:    strings.TrimSpace(form.City),
			State:   strings.TrimSpace(form.State),
			Zip:     strings.TrimSpace(form.Zip),
		},
		OrderedAt:     now,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		StatusHistory: []models.StatusChange{
			{Status: models.OrderStatusPending, At: now, By: strings.TrimSpace(form.Name)},
		},
	}

	if err := s.store.AppendOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("storage_error").Inc()
		return nil, err
	}
	if err := s.store.SaveLastOrder(ctx, order); err != nil {
		s.logger.Error("Failed to record last order", zap.Error(err))
	}
	if err := s.cart.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear cart after checkout", zap.Error(err))
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int64("total", order.Total))

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: now,
		},
		OrderID:  order.ID,
		UserID:   order.UserID,
		UserName: order.UserName,
		Email:    order.ShippingAddress.Email,
		Total:    order.Total,
		Items:    order.Items,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return &order, nil
}

// SetStatus sets the order's status label and appends an audit entry. Any
// transition between known labels is accepted.
func (s *OrderService) SetStatus(ctx context.Context, orderID, status, actingUser string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SetStatus")
	defer span.End()

	if !models.ValidOrderStatus(status) {
		v := models.NewValidationError()
		v.Add("status", fmt.Sprintf("unknown status %q", status))
		return nil, v.Err()
	}

	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	order.StatusHistory = append(order.StatusHistory, models.StatusChange{
		Status: status,
		At:     time.Now().UTC(),
		By:     actingUser,
	})

	if err := s.store.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}

	util.OrderStatusChangesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", status),
		zap.String("by", actingUser))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now().UTC(),
		},
		OrderID: orderID,
		Status:  status,
		By:      actingUser,
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return order, nil
}

// SetPaymentStatus sets the payment label. Payment transitions land in the
// same audit trail as status changes, prefixed "payment:".
func (s *OrderService) SetPaymentStatus(ctx context.Context, orderID, status, actingUser string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SetPaymentStatus")
	defer span.End()

	if !models.ValidPaymentStatus(status) {
		v := models.NewValidationError()
		v.Add("payment_status", fmt.Sprintf("unknown payment status %q", status))
		return nil, v.Err()
	}

	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = status
	order.StatusHistory = append(order.StatusHistory, models.StatusChange{
		Status: "payment:" + status,
		At:     time.Now().UTC(),
		By:     actingUser,
	})

	if err := s.store.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}

	util.PaymentStatusChangesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Payment status updated",
		zap.String("order_id", orderID),
		zap.String("payment_status", status))

	event := &models.PaymentStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentStatusChanged,
			Timestamp: time.Now().UTC(),
		},
		OrderID:       orderID,
		PaymentStatus: status,
		By:            actingUser,
	}
	if err := s.publisher.PublishPaymentStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentStatusChanged event", zap.Error(err))
	}

	return order, nil
}

// SetNotes overwrites the free-text admin notes
func (s *OrderService) SetNotes(ctx context.Context, orderID, notes string) (*models.Order, error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Notes = notes
	if err := s.store.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID retrieves one order
func (s *OrderService) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	return s.store.OrderByID(ctx, orderID)
}

// ListAll returns the order history, newest first
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders(ctx)
}

// ListByStatus returns orders carrying the given status label, newest first
func (s *OrderService) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// Search matches the term against order id, customer name and email,
// case-insensitively. An empty term matches everything.
func (s *OrderService) Search(ctx context.Context, term string) ([]models.Order, error) {
	orders, err := s.store.Orders(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return orders, nil
	}
	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.ID), term) ||
			strings.Contains(strings.ToLower(o.UserName), term) ||
			strings.Contains(strings.ToLower(o.ShippingAddress.Email), term) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// LastOrder returns the order backing the post-checkout confirmation view
func (s *OrderService) LastOrder(ctx context.Context) (*models.Order, error) {
	return s.store.LastOrder(ctx)
}
