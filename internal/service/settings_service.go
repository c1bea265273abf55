package service

import (
	"context"
	"errors"

	"fashionhub/internal/models"
	"fashionhub/internal/store"
	"fashionhub/internal/util"

	"go.uber.org/zap"
)

// SettingsService reads and saves the admin-editable site settings
type SettingsService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewSettingsService(st *store.Store) *SettingsService {
	return &SettingsService{store: st, logger: util.GetLogger()}
}

// DefaultSettings are the values a fresh store starts with
func DefaultSettings() models.SiteSettings {
	return models.SiteSettings{
		SiteName:              "FashionHub",
		ContactEmail:          "support@fashionhub.com",
		ContactPhone:          "(555) 123-4567",
		Address:               "123 Fashion St, New York, NY 10001",
		ShippingFee:           1000,
		FreeShippingThreshold: 5000,
		TaxRate:               0.08,
		Currency:              "USD",
		CurrencySymbol:        "$",
		HeroTitle:             "Discover Your Style",
		HeroDescription:       "Explore our latest collection of women's fashion",
		FeaturedProductsCount: 8,
	}
}

// Get returns the saved settings, falling back to defaults on first access
func (s *SettingsService) Get(ctx context.Context) (models.SiteSettings, error) {
	settings, err := s.store.Settings(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	return *settings, nil
}

// Save overwrites the settings document wholesale
func (s *SettingsService) Save(ctx context.Context, settings models.SiteSettings) error {
	v := models.NewValidationError()
	if settings.TaxRate < 0 || settings.TaxRate >= 1 {
		v.Add("tax_rate", "must be a fraction in [0, 1)")
	}
	if settings.ShippingFee < 0 {
		v.Add("shipping_fee", "must not be negative")
	}
	if settings.FreeShippingThreshold < 0 {
		v.Add("free_shipping_threshold", "must not be negative")
	}
	if err := v.Err(); err != nil {
		return err
	}

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return err
	}
	s.logger.Info("Site settings saved", zap.String("site", settings.SiteName))
	return nil
}
