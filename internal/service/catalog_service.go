package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"fashionhub/internal/models"
	"fashionhub/internal/store"
	"fashionhub/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed seed/products.json
var seedProducts []byte

const defaultSeedStock = 100

// CatalogService manages product records, seeding the catalog from the
// bundled definitions on first access.
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{store: st, logger: util.GetLogger()}
}

// seedEntry is the bundled product definition shape; prices are decimal USD
type seedEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	SKU         string   `json:"sku"`
}

// List returns the catalog, seeding it first when the store is empty
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	seeded, err := s.store.HasProducts(ctx)
	if err != nil {
		return nil, err
	}
	if !seeded {
		if err := s.seed(ctx); err != nil {
			return nil, err
		}
	}
	return s.store.Products(ctx)
}

func (s *CatalogService) seed(ctx context.Context) error {
	var entries []seedEntry
	if err := json.Unmarshal(seedProducts, &entries); err != nil {
		return fmt.Errorf("failed to parse seed catalog: %w", err)
	}

	now := time.Now().UTC()
	products := make([]models.Product, 0, len(entries))
	for _, e := range entries {
		stock := e.Stock
		if stock == 0 {
			stock = defaultSeedStock
		}
		sku := e.SKU
		if sku == "" {
			sku = "SKU" + strings.TrimPrefix(e.ID, "prod")
		}
		products = append(products, models.Product{
			ID:          e.ID,
			Name:        e.Name,
			Category:    e.Category,
			Price:       int64(math.Round(e.Price * 100)),
			Description: e.Description,
			Sizes:       e.Sizes,
			Colors:      e.Colors,
			Image:       e.Image,
			Images:      e.Images,
			Stock:       stock,
			SKU:         sku,
			InStock:     stock > 0,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.store.SaveProducts(ctx, products); err != nil {
		return err
	}
	s.logger.Info("Catalog seeded", zap.Int("products", len(products)))
	return nil
}

// GetByID retrieves one product
func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
}

// Add creates a product with a generated id and timestamps
func (s *CatalogService) Add(ctx context.Context, p models.Product) (*models.Product, error) {
	v := models.NewValidationError()
	if p.Name == "" {
		v.Add("name", "name is required")
	}
	if p.Price < 0 {
		v.Add("price", "price must not be negative")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.ID = fmt.Sprintf("prod-%s", uuid.New().String())
	p.CreatedAt = now
	p.UpdatedAt = now
	p.InStock = p.Stock > 0

	if err := s.store.UpsertProduct(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product added", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

// Update replaces the product wholesale: every field takes its value from
// updates, so callers send the complete record. Only the id and creation
// timestamp are preserved.
func (s *CatalogService) Update(ctx context.Context, id string, updates models.Product) (*models.Product, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updates.Price < 0 {
		v := models.NewValidationError()
		v.Add("price", "price must not be negative")
		return nil, v.Err()
	}

	updates.ID = existing.ID
	updates.CreatedAt = existing.CreatedAt
	updates.UpdatedAt = time.Now().UTC()
	updates.InStock = updates.Stock > 0

	if err := s.store.UpsertProduct(ctx, updates); err != nil {
		return nil, err
	}
	return &updates, nil
}

// Delete removes a product from the catalog
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}
