package models

import "time"

// User represents a registered account
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// User roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// WithoutPassword returns a copy safe to expose as the session user
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// Product represents a catalog entry. Price is in USD cents.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	Image       string    `json:"image"`
	Images      []string  `json:"images,omitempty"`
	Stock       int       `json:"stock"`
	SKU         string    `json:"sku"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartLine is one (product, size, color) selection with its quantity and a
// snapshot of the product taken when the line was added.
type CartLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

// LineTotal returns price times quantity in cents
func (l CartLine) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// ShippingAddress is the checkout form snapshot stored on an order
type ShippingAddress struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// StatusChange is one entry of an order's append-only audit trail
type StatusChange struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	By     string    `json:"by"`
}

// Order is an immutable checkout snapshot plus its mutable workflow labels.
// All monetary fields are USD cents, derived once at creation.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	UserName        string          `json:"user_name"`
	Items           []CartLine      `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Tax             int64           `json:"tax"`
	Shipping        int64           `json:"shipping"`
	Total           int64           `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	OrderedAt       time.Time       `json:"ordered_at"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	StatusHistory   []StatusChange  `json:"status_history"`
	Notes           string          `json:"notes,omitempty"`
}

// Order statuses. Pending is the sole initial state; any transition between
// labels is accepted, every change is audited.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// GuestUserID marks orders placed without a logged-in session
const GuestUserID = "guest"

// ValidOrderStatus reports whether s is a known order status label
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status label
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

// SiteSettings is the admin-editable store configuration. Monetary fields are
// USD cents, TaxRate is a fraction.
type SiteSettings struct {
	SiteName              string  `json:"site_name"`
	Logo                  string  `json:"logo,omitempty"`
	ContactEmail          string  `json:"contact_email"`
	ContactPhone          string  `json:"contact_phone"`
	Address               string  `json:"address"`
	ShippingFee           int64   `json:"shipping_fee"`
	FreeShippingThreshold int64   `json:"free_shipping_threshold"`
	TaxRate               float64 `json:"tax_rate"`
	Currency              string  `json:"currency"`
	CurrencySymbol        string  `json:"currency_symbol"`
	HeroTitle             string  `json:"hero_title"`
	HeroDescription       string  `json:"hero_description"`
	FeaturedProductsCount int     `json:"featured_products_count"`
}
