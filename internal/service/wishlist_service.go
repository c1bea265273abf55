package service

import (
	"context"

	"fashionhub/internal/store"
)

// WishlistService keeps a per-user (or guest) list of product ids
type WishlistService struct {
	store *store.Store
}

func NewWishlistService(st *store.Store) *WishlistService {
	return &WishlistService{store: st}
}

// key resolves the wishlist of the current session
func (s *WishlistService) key(ctx context.Context) (string, error) {
	user, err := s.store.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user == nil {
		return store.WishlistGuestKey, nil
	}
	return store.WishlistKey(user.ID), nil
}

// List returns the session wishlist's product ids
func (s *WishlistService) List(ctx context.Context) ([]string, error) {
	key, err := s.key(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.Wishlist(ctx, key)
}

// Toggle adds the product when absent and removes it when present.
// Returns true when the product ends up on the list.
func (s *WishlistService) Toggle(ctx context.Context, productID string) (bool, error) {
	key, err := s.key(ctx)
	if err != nil {
		return false, err
	}
	ids, err := s.store.Wishlist(ctx, key)
	if err != nil {
		return false, err
	}

	for i, id := range ids {
		if id == productID {
			ids = append(ids[:i], ids[i+1:]...)
			return false, s.store.SaveWishlist(ctx, key, ids)
		}
	}
	return true, s.store.SaveWishlist(ctx, key, append(ids, productID))
}

// Contains reports whether the product is on the session wishlist
func (s *WishlistService) Contains(ctx context.Context, productID string) (bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}
