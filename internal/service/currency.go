package service

import (
	"context"
	"fmt"

	"fashionhub/internal/models"
	"fashionhub/internal/store"
)

// Display currencies. Rates are relative to USD; conversion is display-only
// and never touches stored amounts, which stay USD cents.
var (
	exchangeRates = map[string]float64{
		"USD": 1,
		"BDT": 119.50,
		"INR": 83.20,
	}
	currencySymbols = map[string]string{
		"USD": "$",
		"BDT": "৳",
		"INR": "₹",
	}
	currencyNames = map[string]string{
		"USD": "US Dollar",
		"BDT": "Bangladeshi Taka",
		"INR": "Indian Rupee",
	}
)

// CurrencyService converts USD amounts into the selected display currency
type CurrencyService struct {
	store *store.Store
}

func NewCurrencyService(st *store.Store) *CurrencyService {
	return &CurrencyService{store: st}
}

// Selected returns the persisted display currency, defaulting to USD
func (s *CurrencyService) Selected(ctx context.Context) (string, error) {
	code, err := s.store.SelectedCurrency(ctx)
	if err != nil {
		return "", err
	}
	if _, ok := exchangeRates[code]; !ok {
		return "USD", nil
	}
	return code, nil
}

// SetSelected persists the display currency
func (s *CurrencyService) SetSelected(ctx context.Context, code string) error {
	if _, ok := exchangeRates[code]; !ok {
		v := models.NewValidationError()
		v.Add("currency", fmt.Sprintf("unknown currency %q", code))
		return v.Err()
	}
	return s.store.SaveSelectedCurrency(ctx, code)
}

// Convert returns the display value of USD cents in the target currency
func Convert(usdCents int64, code string) float64 {
	rate, ok := exchangeRates[code]
	if !ok {
		rate = 1
	}
	return float64(usdCents) / 100 * rate
}

// Format renders USD cents as a display string in the target currency
func Format(usdCents int64, code string) string {
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = "$"
	}
	return fmt.Sprintf("%s%.2f", symbol, Convert(usdCents, code))
}

// CurrencyName returns the human name of a currency code
func CurrencyName(code string) string {
	if name, ok := currencyNames[code]; ok {
		return name
	}
	return "US Dollar"
}

// Currencies lists the supported display currency codes
func Currencies() []string {
	return []string{"USD", "BDT", "INR"}
}
