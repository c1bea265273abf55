package service

import (
	"math"

	"fashionhub/internal/models"
)

// Pricing derives tax, shipping and total from a subtotal. All amounts are
// USD cents; each derived amount is rounded to the cent on its own so the
// total never accumulates sub-cent drift.
type Pricing struct {
	TaxRate               float64
	ShippingFee           int64
	FreeShippingThreshold int64
}

// PricingFromSettings builds a Pricing from the saved site settings
func PricingFromSettings(s models.SiteSettings) Pricing {
	return Pricing{
		TaxRate:               s.TaxRate,
		ShippingFee:           s.ShippingFee,
		FreeShippingThreshold: s.FreeShippingThreshold,
	}
}

// Tax returns the tax on a subtotal, rounded to the cent
func (p Pricing) Tax(subtotal int64) int64 {
	return int64(math.Round(float64(subtotal) * p.TaxRate))
}

// Shipping returns the flat fee, waived once the subtotal reaches the
// free-shipping threshold (a threshold of 0 disables the waiver).
func (p Pricing) Shipping(subtotal int64) int64 {
	if p.FreeShippingThreshold > 0 && subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.ShippingFee
}

// Total returns subtotal + tax + shipping
func (p Pricing) Total(subtotal int64) int64 {
	return subtotal + p.Tax(subtotal) + p.Shipping(subtotal)
}

// Quote is the full derived breakdown for a subtotal
type Quote struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Quote computes the breakdown once so all three derived values agree
func (p Pricing) Quote(subtotal int64) Quote {
	tax := p.Tax(subtotal)
	shipping := p.Shipping(subtotal)
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
