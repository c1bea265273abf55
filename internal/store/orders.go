package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"fashionhub/internal/kv"
	"fashionhub/internal/models"
)

// Orders returns the order history, newest first
func (s *Store) Orders(ctx context.Context) ([]models.Order, error) {
	orders, err := getList[models.Order](ctx, s, KeyOrders)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderedAt.After(orders[j].OrderedAt)
	})
	return orders, nil
}

// SaveOrders persists the full order collection
func (s *Store) SaveOrders(ctx context.Context, orders []models.Order) error {
	return setDoc(ctx, s, KeyOrders, orders)
}

// AppendOrder adds a newly created order to the history
func (s *Store) AppendOrder(ctx context.Context, order models.Order) error {
	orders, err := getList[models.Order](ctx, s, KeyOrders)
	if err != nil {
		return err
	}
	return s.SaveOrders(ctx, append(orders, order))
}

// OrderByID retrieves one order
func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	orders, err := getList[models.Order](ctx, s, KeyOrders)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
}

// UpdateOrder replaces the order with a matching id
func (s *Store) UpdateOrder(ctx context.Context, order models.Order) error {
	orders, err := getList[models.Order](ctx, s, KeyOrders)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = order
			return s.SaveOrders(ctx, orders)
		}
	}
	return fmt.Errorf("order %s: %w", order.ID, models.ErrNotFound)
}

// LastOrder returns the most recently created order, nil when none exists
func (s *Store) LastOrder(ctx context.Context) (*models.Order, error) {
	var order models.Order
	err := s.kv.Get(ctx, KeyLastOrder, &order)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StorageError{Key: KeyLastOrder, Op: "read", Err: err}
	}
	return &order, nil
}

// SaveLastOrder records the order shown on the post-checkout confirmation
func (s *Store) SaveLastOrder(ctx context.Context, order models.Order) error {
	return setDoc(ctx, s, KeyLastOrder, order)
}
