package store

import (
	"context"
	"errors"
	"fmt"

	"fashionhub/internal/kv"
	"fashionhub/internal/models"
)

// Persisted document keys. The external layout matches the original site
// storage so a dump of one backend can be loaded by another.
const (
	KeyUsers            = "users"
	KeyCurrentUser      = "currentUser"
	KeyProducts         = "products"
	KeyCart             = "cart"
	KeyOrders           = "orders"
	KeySiteSettings     = "siteSettings"
	KeySelectedCurrency = "selectedCurrency"
	KeyLastOrder        = "lastOrder"
	wishlistKeyPrefix   = "wishlist_"
	WishlistGuestKey    = "wishlist_guest"
)

// Store exposes the entity collections over a kv.Store. Collections
// serialize as whole documents; mutations go through keyed helpers here so
// callers never hand-roll the read-modify-write cycle.
type Store struct {
	kv kv.Store
}

// New creates an entity store over the given backend
func New(backend kv.Store) *Store {
	return &Store{kv: backend}
}

// Close closes the underlying backend
func (s *Store) Close() error {
	return s.kv.Close()
}

// getList loads a collection, treating a missing document as empty
func getList[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	var items []T
	err := s.kv.Get(ctx, key, &items)
	if errors.Is(err, kv.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, &models.StorageError{Key: key, Op: "read", Err: err}
	}
	return items, nil
}

func setDoc(ctx context.Context, s *Store, key string, value interface{}) error {
	if err := s.kv.Set(ctx, key, value); err != nil {
		return &models.StorageError{Key: key, Op: "write", Err: err}
	}
	return nil
}

// Users returns all registered users
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	return getList[models.User](ctx, s, KeyUsers)
}

// SaveUsers persists the full user collection
func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	return setDoc(ctx, s, KeyUsers, users)
}

// UserByEmail finds a user by their unique email
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
}

// CurrentUser returns the session user, or nil when nobody is logged in
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	err := s.kv.Get(ctx, KeyCurrentUser, &u)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StorageError{Key: KeyCurrentUser, Op: "read", Err: err}
	}
	return &u, nil
}

// SetCurrentUser stores the session user; the credential secret is stripped
func (s *Store) SetCurrentUser(ctx context.Context, u models.User) error {
	return setDoc(ctx, s, KeyCurrentUser, u.WithoutPassword())
}

// ClearCurrentUser ends the session
func (s *Store) ClearCurrentUser(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyCurrentUser); err != nil {
		return &models.StorageError{Key: KeyCurrentUser, Op: "delete", Err: err}
	}
	return nil
}

// Products returns the full catalog
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	return getList[models.Product](ctx, s, KeyProducts)
}

// HasProducts reports whether a catalog document exists at all, so seeding
// runs only on a truly fresh store.
func (s *Store) HasProducts(ctx context.Context) (bool, error) {
	var items []models.Product
	err := s.kv.Get(ctx, KeyProducts, &items)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &models.StorageError{Key: KeyProducts, Op: "read", Err: err}
	}
	return len(items) > 0, nil
}

// SaveProducts persists the full catalog
func (s *Store) SaveProducts(ctx context.Context, products []models.Product) error {
	return setDoc(ctx, s, KeyProducts, products)
}

// UpsertProduct replaces the product with a matching id, or appends it
func (s *Store) UpsertProduct(ctx context.Context, p models.Product) error {
	products, err := s.Products(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			return s.SaveProducts(ctx, products)
		}
	}
	return s.SaveProducts(ctx, append(products, p))
}

// DeleteProduct removes a product by id; absent ids are a no-op
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	products, err := s.Products(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return s.SaveProducts(ctx, kept)
}

// Cart returns the live cart lines
func (s *Store) Cart(ctx context.Context) ([]models.CartLine, error) {
	return getList[models.CartLine](ctx, s, KeyCart)
}

// SaveCart persists the full cart line set
func (s *Store) SaveCart(ctx context.Context, lines []models.CartLine) error {
	return setDoc(ctx, s, KeyCart, lines)
}

// Settings returns the saved site settings, or ErrNotFound when unset
func (s *Store) Settings(ctx context.Context) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.kv.Get(ctx, KeySiteSettings, &settings)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("site settings: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, &models.StorageError{Key: KeySiteSettings, Op: "read", Err: err}
	}
	return &settings, nil
}

// SaveSettings overwrites the settings document wholesale
func (s *Store) SaveSettings(ctx context.Context, settings models.SiteSettings) error {
	return setDoc(ctx, s, KeySiteSettings, settings)
}

// SelectedCurrency returns the persisted display currency code, "" when unset
func (s *Store) SelectedCurrency(ctx context.Context) (string, error) {
	var code string
	err := s.kv.Get(ctx, KeySelectedCurrency, &code)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", &models.StorageError{Key: KeySelectedCurrency, Op: "read", Err: err}
	}
	return code, nil
}

// SaveSelectedCurrency persists the display currency code
func (s *Store) SaveSelectedCurrency(ctx context.Context, code string) error {
	return setDoc(ctx, s, KeySelectedCurrency, code)
}

// WishlistKey returns the storage key of a user's wishlist
func WishlistKey(userID string) string {
	if userID == "" {
		return WishlistGuestKey
	}
	return wishlistKeyPrefix + userID
}

// Wishlist returns the product ids saved under key
func (s *Store) Wishlist(ctx context.Context, key string) ([]string, error) {
	return getList[string](ctx, s, key)
}

// SaveWishlist persists a wishlist
func (s *Store) SaveWishlist(ctx context.Context, key string, ids []string) error {
	return setDoc(ctx, s, key, ids)
}
