package service

import (
	"context"

	"fashionhub/internal/models"
	"fashionhub/internal/store"
	"fashionhub/internal/util"

	"go.uber.org/zap"
)

// Quantity per cart line is clamped to this range; setting a quantity at or
// below zero removes the line.
const maxLineQuantity = 10

// CartService owns the live cart-line set
type CartService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewCartService(st *store.Store) *CartService {
	return &CartService{store: st, logger: util.GetLogger()}
}

// Items returns the current cart lines
func (s *CartService) Items(ctx context.Context) ([]models.CartLine, error) {
	return s.store.Cart(ctx)
}

// AddLine adds quantity of (product, size, color) to the cart. An existing
// line with the same key is incremented; quantities clamp to the line cap.
// The line snapshots the product's name, price and image as of now.
func (s *CartService) AddLine(ctx context.Context, product *models.Product, size, color string, quantity int) (*models.CartLine, error) {
	v := models.NewValidationError()
	if size == "" {
		v.Add("size", "please select a size")
	}
	if color == "" {
		v.Add("color", "please select a color")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if quantity < 1 {
		quantity = 1
	}

	lines, err := s.store.Cart(ctx)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		if lines[i].ProductID == product.ID && lines[i].Size == size && lines[i].Color == color {
			lines[i].Quantity = clampQuantity(lines[i].Quantity + quantity)
			if err := s.store.SaveCart(ctx, lines); err != nil {
				return nil, err
			}
			util.CartMutationsTotal.WithLabelValues("add").Inc()
			return &lines[i], nil
		}
	}

	line := models.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Size:      size,
		Color:     color,
		Quantity:  clampQuantity(quantity),
		Image:     product.Image,
	}
	lines = append(lines, line)
	if err := s.store.SaveCart(ctx, lines); err != nil {
		return nil, err
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	s.logger.Debug("Cart line added",
		zap.String("product_id", product.ID),
		zap.String("size", size),
		zap.String("color", color))
	return &line, nil
}

// RemoveLine deletes the matching line; absent keys are a no-op
func (s *CartService) RemoveLine(ctx context.Context, productID, size, color string) error {
	lines, err := s.store.Cart(ctx)
	if err != nil {
		return err
	}

	kept := lines[:0]
	for _, l := range lines {
		if !(l.ProductID == productID && l.Size == size && l.Color == color) {
			kept = append(kept, l)
		}
	}
	if err := s.store.SaveCart(ctx, kept); err != nil {
		return err
	}
	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return nil
}

// SetQuantity updates a line in place. A quantity at or below zero removes
// the line; quantities above the cap clamp down to it. Unknown keys are a
// no-op.
func (s *CartService) SetQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveLine(ctx, productID, size, color)
	}

	lines, err := s.store.Cart(ctx)
	if err != nil {
		return err
	}

	for i := range lines {
		if lines[i].ProductID == productID && lines[i].Size == size && lines[i].Color == color {
			lines[i].Quantity = clampQuantity(quantity)
			if err := s.store.SaveCart(ctx, lines); err != nil {
				return err
			}
			util.CartMutationsTotal.WithLabelValues("set_quantity").Inc()
			return nil
		}
	}
	return nil
}

// Subtotal returns the sum of price x quantity over all lines, in cents
func (s *CartService) Subtotal(ctx context.Context) (int64, error) {
	lines, err := s.store.Cart(ctx)
	if err != nil {
		return 0, err
	}
	var subtotal int64
	for _, l := range lines {
		subtotal += l.LineTotal()
	}
	return subtotal, nil
}

// ItemCount returns the sum of quantities over all lines
func (s *CartService) ItemCount(ctx context.Context) (int, error) {
	lines, err := s.store.Cart(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return count, nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context) error {
	if err := s.store.SaveCart(ctx, []models.CartLine{}); err != nil {
		return err
	}
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// IsEmpty reports whether the cart has no lines
func (s *CartService) IsEmpty(ctx context.Context) (bool, error) {
	lines, err := s.store.Cart(ctx)
	if err != nil {
		return false, err
	}
	return len(lines) == 0, nil
}

func clampQuantity(q int) int {
	if q > maxLineQuantity {
		return maxLineQuantity
	}
	if q < 1 {
		return 1
	}
	return q
}
